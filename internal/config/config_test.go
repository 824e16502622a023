package config

import (
	"os"
	"testing"

	"github.com/joho/godotenv"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("BC_TEST_INT", "250")
	t.Setenv("BC_TEST_FLOAT", "87.5")
	t.Setenv("BC_TEST_BAD", "not-a-number")

	if got := getEnvInt("BC_TEST_INT", 1); got != 250 {
		t.Errorf("getEnvInt = %d, want 250", got)
	}
	if got := getEnvInt("BC_TEST_BAD", 7); got != 7 {
		t.Errorf("getEnvInt with bad value = %d, want fallback 7", got)
	}
	if got := getEnvInt("BC_TEST_MISSING", 7); got != 7 {
		t.Errorf("getEnvInt with missing key = %d, want fallback 7", got)
	}
	if got := getEnvFloat("BC_TEST_FLOAT", 1); got != 87.5 {
		t.Errorf("getEnvFloat = %v, want 87.5", got)
	}
	if got := getEnv("BC_TEST_MISSING", "x"); got != "x" {
		t.Errorf("getEnv with missing key = %q, want fallback", got)
	}
}

func TestGodotenvQuoting(t *testing.T) {
	content := `TEST_VAR='value with "double quotes"'`
	tmpfile, err := os.CreateTemp("", ".env.test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	env, err := godotenv.Read(tmpfile.Name())
	if err != nil {
		t.Fatalf("Error reading env: %v", err)
	}

	expected := `value with "double quotes"`
	if env["TEST_VAR"] != expected {
		t.Errorf("Expected %s, got %s", expected, env["TEST_VAR"])
	}
}
