// Package config loads traitgraph.yaml, which describes the screen menus are
// laid out against and the user trait slots of each element type.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/traitgraph/internal/ui"
	"github.com/phobologic/traitgraph/internal/value"
)

// FileName is the configuration file looked up from the menu root upward.
const FileName = "traitgraph.yaml"

// AnyTag holds the element settings used for tags not listed explicitly.
const AnyTag = "*"

// Config is the top-level traitgraph.yaml.
type Config struct {
	// Screen is the raw render target size.
	Screen Screen `yaml:"screen"`

	// Strings is the localization file behind strings(), relative to the
	// configuration file.
	Strings string `yaml:"strings,omitempty"`

	// Ignore lists gitignore-style patterns of menu files to skip.
	Ignore []string `yaml:"ignore,omitempty"`

	// Ticks is how many times each menu is updated before reporting.
	Ticks int `yaml:"ticks,omitempty"`

	// Elements maps an element tag to its user trait slots.
	Elements map[string]Element `yaml:"elements,omitempty"`
}

// Screen is a raw screen size in pixels.
type Screen struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Element declares the user trait slots of one element tag.
type Element struct {
	// User holds the kind of each slot in index order: int, float, bool,
	// string, or unimplemented.
	User []string `yaml:"user,omitempty,flow"`

	// Provided maps slot indices the element supplies itself to their
	// starting value, written as a document literal.
	Provided map[int]string `yaml:"provided,omitempty"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Screen: Screen{Width: 1280, Height: 960},
		Ticks:  1,
		Elements: map[string]Element{
			AnyTag: {User: []string{"float", "float", "float", "float"}},
			"text": {
				User:     []string{"string", "float", "float"},
				Provided: map[int]string{1: "0.0", 2: "0.0"},
			},
			"toggle": {User: []string{"bool", "int"}},
		},
	}
}

// Load reads and parses the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses traitgraph.yaml content. The path argument is used only for
// error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.setDefaults()
	return &cfg, nil
}

// Find searches for traitgraph.yaml starting from dir and walking up to the
// filesystem root. It returns "" when there is none.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) setDefaults() {
	if c.Screen.Width == 0 && c.Screen.Height == 0 {
		c.Screen = Default().Screen
	}
	if c.Ticks == 0 {
		c.Ticks = 1
	}
}

// validate reports every problem in the file at once.
func (c *Config) validate() error {
	var result *multierror.Error
	if c.Screen.Width < 0 || c.Screen.Height < 0 {
		result = multierror.Append(result, fmt.Errorf("screen: negative size %dx%d", c.Screen.Width, c.Screen.Height))
	}
	if c.Ticks < 0 {
		result = multierror.Append(result, fmt.Errorf("ticks: %d is negative", c.Ticks))
	}

	for _, tag := range sortedTags(c.Elements) {
		el := c.Elements[tag]
		kinds, err := el.kinds()
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("elements.%s: %w", tag, err))
			continue
		}
		for index, lit := range el.Provided {
			if _, err := provide(kinds, index, lit); err != nil {
				result = multierror.Append(result, fmt.Errorf("elements.%s.provided: %w", tag, err))
			}
		}
	}
	return result.ErrorOrNil()
}

func sortedTags(elements map[string]Element) []string {
	tags := make([]string, 0, len(elements))
	for tag := range elements {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func (e Element) kinds() ([]value.Kind, error) {
	if len(e.User) > ui.MaxUserTraits {
		return nil, fmt.Errorf("%d user slots, at most %d allowed", len(e.User), ui.MaxUserTraits)
	}
	kinds := make([]value.Kind, len(e.User))
	for i, s := range e.User {
		k, err := value.ParseKind(s)
		if err != nil {
			return nil, fmt.Errorf("user[%d]: %w", i, err)
		}
		kinds[i] = k
	}
	return kinds, nil
}

// provide converts the literal for slot index to the slot's kind.
func provide(kinds []value.Kind, index int, lit string) (value.Value, error) {
	if index < 0 || index >= len(kinds) || kinds[index] == ui.Unimplemented {
		return value.Value{}, fmt.Errorf("slot %d is not implemented", index)
	}
	v, err := value.Convert(value.Parse(lit), kinds[index])
	if err != nil {
		return value.Value{}, fmt.Errorf("slot %d: %w", index, err)
	}
	return v, nil
}

// Element returns the settings for tag, falling back to AnyTag.
func (c *Config) Element(tag string) Element {
	if el, ok := c.Elements[tag]; ok {
		return el
	}
	return c.Elements[AnyTag]
}

// Factory returns a ui.Factory creating headless elements with the slots
// configured for their tag.
func (c *Config) Factory() ui.Factory {
	return func(tag, name string) (ui.Element, error) {
		el := c.Element(tag)
		kinds, err := el.kinds()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		h := ui.NewHeadless(tag, kinds)
		for index, lit := range el.Provided {
			v, err := provide(kinds, index, lit)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", tag, err)
			}
			if err := h.Provide(index, v); err != nil {
				return nil, err
			}
		}
		return h, nil
	}
}

// RawScreen is the configured screen as the ui package describes it.
func (c *Config) RawScreen() ui.Screen {
	return ui.Screen{RawWidth: c.Screen.Width, RawHeight: c.Screen.Height}
}
