package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsTable(t *testing.T) {
	fields := Fields()
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Key)
		assert.NotEmpty(t, f.Label, "field %s has no label", f.Key)
		assert.NotEmpty(t, f.Rule, "field %s has no rule", f.Key)
	}
	assert.Equal(t, []string{"title", "journal", "pmid", "doi", "year_min", "year_max"}, keys)

	f, ok := LookupField("doi")
	require.True(t, ok)
	assert.Equal(t, "DOI", f.Label)

	_, ok = LookupField("authors")
	assert.False(t, ok)
}

func TestLoadFields_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"reserved key", "[[field]]\nkey = \"tags\"\nrule = \"omitempty\"\n"},
		{"duplicate key", "[[field]]\nkey = \"a\"\n[[field]]\nkey = \"a\"\n"},
		{"missing key", "[[field]]\nlabel = \"A\"\n"},
		{"malformed", "[[field]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := loadFields([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestForm_Validation(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr string
	}{
		{"pmid", "12345", ""},
		{"pmid", "12a45", "PMID must be a number"},
		{"doi", "10.1016/j.neuroimage.2012.01.001", ""},
		{"doi", "doi:10.1016/x", `DOI must start with "10."`},
		{"year_min", "2004", ""},
		{"year_min", "04", "From year must be exactly 4 characters"},
		{"year_max", "20x4", "To year must be a number"},
		{"title", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			f := NewForm()
			require.NoError(t, f.Set(tt.key, tt.value))
			if tt.wantErr == "" {
				assert.NoError(t, f.Err(tt.key))
				assert.False(t, f.Invalid())
				return
			}
			require.Error(t, f.Err(tt.key))
			assert.Equal(t, tt.wantErr, f.Err(tt.key).Error())
			assert.True(t, f.Invalid())
		})
	}
}

func TestForm_YearRange(t *testing.T) {
	f := NewForm()
	require.NoError(t, f.Set("year_min", "2010"))
	require.NoError(t, f.Set("year_max", "2005"))
	assert.True(t, f.Invalid())
	assert.EqualError(t, f.Err("year_max"), "To year must not be before From year")

	require.NoError(t, f.Set("year_max", "2015"))
	assert.False(t, f.Invalid())
}

func TestForm_PristineTracking(t *testing.T) {
	f := NewForm()
	assert.True(t, f.Pristine())

	require.NoError(t, f.Set("title", "x"))
	assert.False(t, f.Pristine())

	f.SetPristine()
	assert.True(t, f.Pristine())

	f.MarkDirty()
	assert.False(t, f.Pristine())

	err := f.Set("nope", "x")
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestForm_Filters(t *testing.T) {
	f := NewForm()
	require.NoError(t, f.Set("title", "  fmri  "))
	require.NoError(t, f.Set("journal", ""))
	assert.Equal(t, map[string]string{"title": "fmri"}, f.Filters())
	assert.Equal(t, "  fmri  ", f.Value("title"))
}

func TestCriteriaSummary(t *testing.T) {
	c := Criteria{
		Filters: map[string]string{"journal": "Cortex", "title": "fmri"},
		Authors: []string{"Smith J", "Doe A"},
		Tags:    []string{"spm"},
	}
	assert.Equal(t, `title="fmri" journal="Cortex" authors=Smith J, Doe A tags=spm`, c.Summary())
	assert.Equal(t, "", Criteria{}.Summary())
	assert.True(t, Criteria{}.Empty())
	assert.False(t, c.Empty())
}
