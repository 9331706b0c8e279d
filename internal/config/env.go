package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

const (
	APP_NAME = "redline"
	ENV_FILE = "env"
)

var DEFAULT_ENV_FILE string = `# C++ compiler used by 'redline build'
RL_CXX=c++
# optional replacement for the bundled rl_runtime.hpp
RL_RUNTIME=
`

type Envs struct {
	CXX     string `env:"RL_CXX"`
	RUNTIME string `env:"RL_RUNTIME"`
}

func (e *Envs) ShowAll(w io.Writer) {
	v := reflect.ValueOf(e)

	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	for i := range v.NumField() {
		field := v.Type().Field(i)
		fieldValue := v.Field(i)

		envTag := field.Tag.Get("env")
		if envTag != "" {
			fmt.Fprintf(w, "%s='%s'\n", envTag, fieldValue.String())
		}
	}
}

// LoadEnvs reads the env file of the config directory, creating it with
// defaults on first use. Variables set in the process environment win over
// the file.
func LoadEnvs() (*Envs, error) {
	configDir, err := getConfigDir(APP_NAME)
	if err != nil {
		return nil, err
	}

	envs, err := loadEnvFile(filepath.Join(configDir, ENV_FILE))
	if err != nil {
		return nil, err
	}

	t := reflect.TypeOf(Envs{})
	for i := range t.NumField() {
		envTag := t.Field(i).Tag.Get("env")
		if value, ok := os.LookupEnv(envTag); ok {
			envs[envTag] = value
		}
	}

	parsedEnvs := Envs{}
	if err := MapEnvToStruct(envs, &parsedEnvs); err != nil {
		return nil, err
	}
	return &parsedEnvs, nil
}

func getConfigDir(appName string) (string, error) {
	var configDir string

	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		configDir = filepath.Join(configHome, appName)
	} else if homeDir, err := os.UserHomeDir(); err == nil {
		if os.Getenv("OS") == "Windows_NT" {
			configDir = filepath.Join(os.Getenv("APPDATA"), appName)
		} else {
			configDir = filepath.Join(homeDir, ".config", appName)
		}
	} else {
		return "", fmt.Errorf("could not determine home directory")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}

	return configDir, nil
}

func loadEnvFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := writeStringToFile(path, DEFAULT_ENV_FILE); err != nil {
			return nil, err
		}
		return parseKeyValues(strings.NewReader(DEFAULT_ENV_FILE))
	}
	defer file.Close()

	return parseKeyValues(file)
}

// parseKeyValues reads key=value lines. Blank lines and lines starting with
// '#' are skipped, as are lines without '='.
func parseKeyValues(r io.Reader) (map[string]string, error) {
	values := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		values[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return values, nil
}

func writeStringToFile(fileName, content string) error {
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(content)
	return err
}

// MapEnvToStruct copies values into the string fields of the struct result
// points to, matching keys against each field's env tag.
func MapEnvToStruct(data map[string]string, result any) error {
	v := reflect.ValueOf(result)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: expected a pointer to a struct, got %T", result)
	}
	v = v.Elem()
	t := v.Type()

	for i := range t.NumField() {
		field := t.Field(i)
		fieldValue := v.Field(i)

		envTag := field.Tag.Get("env")
		if envTag != "" {
			if value, ok := data[envTag]; ok {
				if fieldValue.CanSet() && fieldValue.Kind() == reflect.String {
					fieldValue.SetString(value)
				}
			}
		}
	}

	return nil
}
