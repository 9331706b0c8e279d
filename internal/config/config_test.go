package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// unsetenv removes key for the rest of the test and restores it after.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestParseKeyValues(t *testing.T) {
	src := `# comment
RL_CXX = clang++

not a pair
RL_RUNTIME=/opt/rl/rl_runtime.hpp
url=http://x?a=b
`
	values, err := parseKeyValues(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	expected := map[string]string{
		"RL_CXX":     "clang++",
		"RL_RUNTIME": "/opt/rl/rl_runtime.hpp",
		"url":        "http://x?a=b",
	}
	if !reflect.DeepEqual(values, expected) {
		t.Fatalf("\nexpected: %v\ngot:      %v", expected, values)
	}
}

func TestLoadEnvsCreatesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	unsetenv(t, "RL_CXX")
	unsetenv(t, "RL_RUNTIME")

	envs, err := LoadEnvs()
	if err != nil {
		t.Fatal(err)
	}
	if envs.CXX != "c++" || envs.RUNTIME != "" {
		t.Fatalf("unexpected defaults: %+v", envs)
	}

	content, err := os.ReadFile(filepath.Join(home, APP_NAME, ENV_FILE))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != DEFAULT_ENV_FILE {
		t.Fatalf("expected the default env file, got %q", content)
	}
}

func TestLoadEnvsProcessOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	if err := os.MkdirAll(filepath.Join(home, APP_NAME), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(home, APP_NAME, ENV_FILE), []byte("RL_CXX=g++\nRL_RUNTIME=/x.hpp\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RL_CXX", "clang++")
	unsetenv(t, "RL_RUNTIME")

	envs, err := LoadEnvs()
	if err != nil {
		t.Fatal(err)
	}
	if envs.CXX != "clang++" {
		t.Fatalf("expected the process environment to win, got %q", envs.CXX)
	}
	if envs.RUNTIME != "/x.hpp" {
		t.Fatalf("expected RL_RUNTIME from the file, got %q", envs.RUNTIME)
	}
}

func TestShowAll(t *testing.T) {
	var b strings.Builder
	(&Envs{CXX: "c++", RUNTIME: "/r.hpp"}).ShowAll(&b)
	expected := "RL_CXX='c++'\nRL_RUNTIME='/r.hpp'\n"
	if b.String() != expected {
		t.Fatalf("\nexpected: %q\ngot:      %q", expected, b.String())
	}
}

func TestMapEnvToStructRejectsNonPointers(t *testing.T) {
	if err := MapEnvToStruct(map[string]string{}, Envs{}); err == nil {
		t.Fatal("expected an error for a non-pointer")
	}
}

func TestLoadManifest(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected Manifest
		err      string
	}{
		{
			name:     "all keys",
			src:      "name = hello\nentry = src/main.rl\noutput = out\nbuild = release\n",
			expected: Manifest{Name: "hello", Entry: "src/main.rl", Output: "out", Build: "release"},
		},
		{
			name:     "defaults",
			src:      "# only the entry\nentry = app.rl\n",
			expected: Manifest{Name: "app", Entry: "app.rl", Output: "build"},
		},
		{
			name: "missing entry",
			src:  "name = x\n",
			err:  "missing 'entry'",
		},
		{
			name: "bad build type",
			src:  "entry = a.rl\nbuild = fast\n",
			err:  `unknown build type "fast"`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, MANIFEST_FILE), []byte(test.src), 0644); err != nil {
				t.Fatal(err)
			}

			manifest, err := LoadManifest(dir)
			if test.err != "" {
				if err == nil || !strings.Contains(err.Error(), test.err) {
					t.Fatalf("expected error containing %q, got %v", test.err, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			test.expected.Dir = dir
			if *manifest != test.expected {
				t.Fatalf("\nexpected: %+v\ngot:      %+v", test.expected, *manifest)
			}
		})
	}
}

func TestManifestForFile(t *testing.T) {
	manifest := ManifestForFile(filepath.Join("examples", "hello.rl"))
	if manifest.Name != "hello" || manifest.EntryPath() != filepath.Join("examples", "hello.rl") {
		t.Fatalf("unexpected manifest %+v", manifest)
	}
	if manifest.OutputDir() != filepath.Join("examples", "build") {
		t.Fatalf("unexpected output dir %q", manifest.OutputDir())
	}
	if manifest.BuildType() != DEBUG {
		t.Fatalf("expected debug by default")
	}
}

func TestBuildTypeFlags(t *testing.T) {
	tests := []struct {
		bt       BuildType
		name     string
		optLevel string
	}{
		{RELEASE, "release", "-O3"},
		{DEBUG, "debug", "-O0"},
	}
	for _, test := range tests {
		if test.bt.String() != test.name {
			t.Fatalf("expected %s, got %s", test.name, test.bt)
		}
		flags := test.bt.CXXFlags()
		if flags[0] != "-std=c++17" || flags[1] != test.optLevel {
			t.Fatalf("%s: unexpected flags %v", test.name, flags)
		}
	}
}
