package search

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Criteria is what the user searched for, without paging.
type Criteria struct {
	Filters map[string]string `json:"filters,omitempty"`
	Authors []string          `json:"authors,omitempty"`
	Tags    []string          `json:"tags,omitempty"`
}

// Empty reports whether no filter, author or tag is set.
func (c Criteria) Empty() bool {
	return len(c.Filters) == 0 && len(c.Authors) == 0 && len(c.Tags) == 0
}

// Summary renders the criteria on one line in field order,
// e.g. `title="fmri" authors=Smith J, Doe A`.
func (c Criteria) Summary() string {
	var parts []string
	for _, f := range fieldList {
		if v, ok := c.Filters[f.Key]; ok && v != "" {
			parts = append(parts, fmt.Sprintf("%s=%q", f.Key, v))
		}
	}
	if len(c.Authors) > 0 {
		parts = append(parts, "authors="+strings.Join(c.Authors, ", "))
	}
	if len(c.Tags) > 0 {
		parts = append(parts, "tags="+strings.Join(c.Tags, ", "))
	}
	return strings.Join(parts, " ")
}

// Params is the query record sent to the articles endpoint.
type Params struct {
	Criteria
	PageNum  int
	PageSize int
}

// Values encodes the params as query values. Authors and tags become
// repeated keys; page_num and page_size are always present.
func (p Params) Values() url.Values {
	v := url.Values{}
	for key, value := range p.Filters {
		if value != "" {
			v.Set(key, value)
		}
	}
	for _, a := range p.Authors {
		v.Add("authors", a)
	}
	for _, t := range p.Tags {
		v.Add("tags", t)
	}
	v.Set("page_num", strconv.Itoa(p.PageNum))
	v.Set("page_size", strconv.Itoa(p.PageSize))
	return v
}
