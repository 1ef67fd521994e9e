package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/ntsearch/internal/config"
)

func TestShowBanner(t *testing.T) {
	var buf bytes.Buffer
	ShowBanner(&buf, "1.0.0-test")
	out := buf.String()

	if !strings.Contains(out, "Literature Search") {
		t.Errorf("Expected banner to contain 'Literature Search', got: %s", out)
	}
	if !strings.Contains(out, "╔") || !strings.Contains(out, "╝") {
		t.Errorf("Expected banner to contain border characters, got: %s", out)
	}
	if !strings.Contains(out, "v1.0.0-test") {
		t.Errorf("Expected banner to contain version 'v1.0.0-test', got: %s", out)
	}
}

func TestShowBanner_DevVersion(t *testing.T) {
	var buf bytes.Buffer
	ShowBanner(&buf, "dev")
	out := buf.String()

	if strings.Contains(out, "vdev") {
		t.Errorf("dev builds should not carry a version tag, got: %s", out)
	}
	if !strings.Contains(out, "Literature Search") {
		t.Errorf("Expected banner title, got: %s", out)
	}
}

func TestGetCompactBanner(t *testing.T) {
	message := "Test message"
	result := GetCompactBanner(message)

	if !strings.Contains(result, message) {
		t.Errorf("Expected compact banner to contain '%s', got: %s", message, result)
	}
	if !strings.Contains(result, "█▄ █") {
		t.Errorf("Expected compact banner to contain logo elements, got: %s", result)
	}
}

func TestGetWelcomeMessage(t *testing.T) {
	result := GetWelcomeMessage("ctrl+s")

	if !strings.Contains(result, "press ctrl+s to search") {
		t.Errorf("Expected welcome message to name the submit key, got: %s", result)
	}
}

func TestLogoConstants(t *testing.T) {
	if len(LogoLines) != 2 {
		t.Errorf("Expected 2 logo lines, got %d", len(LogoLines))
	}
	if len(BannerColors) != 3 {
		t.Errorf("Expected 3 banner colors, got %d", len(BannerColors))
	}
}

func TestApplyTheme(t *testing.T) {
	saved := PrimaryColor
	savedMuted := MutedColor
	t.Cleanup(func() {
		PrimaryColor = saved
		MutedColor = savedMuted
		buildStyles()
	})

	ApplyTheme(config.UIColors{Primary: "#123456"})

	if PrimaryColor != lipgloss.Color("#123456") {
		t.Errorf("PrimaryColor = %v, want #123456", PrimaryColor)
	}
	if MutedColor != savedMuted {
		t.Errorf("empty entries should keep the current color, got %v", MutedColor)
	}
}
