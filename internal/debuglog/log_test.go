package debuglog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelOff, "OFF"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, test := range tests {
		if got := test.level.String(); got != test.expected {
			t.Errorf("LogLevel.String() = %q, want %q", got, test.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"DEBUG", LevelDebug},
		{"debug", LevelDebug},
		{" info ", LevelInfo},
		{"WARNING", LevelWarn},
		{"error", LevelError},
		{"off", LevelOff},
		{"none", LevelOff},
		{"INVALID", LevelInfo},
		{"", LevelInfo},
	}

	for _, test := range tests {
		if got := ParseLogLevel(test.input); got != test.expected {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", test.input, got, test.expected)
		}
	}
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(content)
}

func TestSetupWithLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "test.log")

	if err := Setup(LevelInfo, logPath); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if GetLevel() != LevelInfo {
		t.Errorf("GetLevel() = %v, want %v", GetLevel(), LevelInfo)
	}

	Debugf("debug message")
	Infof("info message %d", 1)
	Warnf("warn message")
	Errorf("error message")

	if err := Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	logContent := readLog(t, logPath)
	if strings.Contains(logContent, "debug message") {
		t.Error("debug message should be filtered at INFO level")
	}
	for _, want := range []string{"info message 1", "warn message", "error message", "INFO", "WARN", "ERROR", "ntsearch"} {
		if !strings.Contains(logContent, want) {
			t.Errorf("log missing %q:\n%s", want, logContent)
		}
	}
}

func TestSetupOff(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "off.log")

	if err := Setup(LevelOff, logPath); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	Errorf("should not be written")
	_ = Close()

	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Error("LevelOff should not create a log file")
	}
}

func TestSetLevelRuntime(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "level.log")
	if err := Setup(LevelError, logPath); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	Warnf("hidden warning")
	SetLevel(LevelDebug)
	Debugf("visible debug")
	SetLevel(LevelOff)
	Errorf("silenced error")
	_ = Close()

	logContent := readLog(t, logPath)
	if strings.Contains(logContent, "hidden warning") {
		t.Error("warning logged below ERROR level")
	}
	if !strings.Contains(logContent, "visible debug") {
		t.Error("debug message missing after SetLevel(LevelDebug)")
	}
	if strings.Contains(logContent, "silenced error") {
		t.Error("message logged after SetLevel(LevelOff)")
	}
}

func TestWithFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "fields.log")
	if err := Setup(LevelDebug, logPath); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	WithFields(map[string]interface{}{"request": 3, "page": 2}).Infof("fetch applied")
	_ = Close()

	logContent := readLog(t, logPath)
	for _, want := range []string{"fetch applied", "request", "page"} {
		if !strings.Contains(logContent, want) {
			t.Errorf("log missing %q:\n%s", want, logContent)
		}
	}
}

func TestLoggingWithoutSetupIsNoop(t *testing.T) {
	_ = Close()
	SetLevel(LevelOff)
	Infof("nothing")
	WithFields(map[string]interface{}{"k": "v"}).Errorf("nothing")
}
