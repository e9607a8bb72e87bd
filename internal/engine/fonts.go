package engine

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"gopkg.in/yaml.v3"
)

// fontManifest is the YAML file that maps font families to TTF paths:
//
//	default: Inter
//	fonts:
//	  - name: Inter
//	    regular: /fonts/Inter-Regular.ttf
//	    bold: /fonts/Inter-Bold.ttf
//	    italic: /fonts/Inter-Italic.ttf
type fontManifest struct {
	Default string `yaml:"default"`
	Fonts   []struct {
		Name    string `yaml:"name"`
		Regular string `yaml:"regular"`
		Bold    string `yaml:"bold"`
		Italic  string `yaml:"italic"`
	} `yaml:"fonts"`
}

type fontVariant struct {
	regular *truetype.Font
	bold    *truetype.Font
	italic  *truetype.Font
}

// FontLibrary resolves (family, style, size) to a font.Face. TTF files are
// parsed once; faces are cheap and created per size.
type FontLibrary struct {
	mu            sync.RWMutex
	defaultFamily string
	families      map[string]*fontVariant
}

// LoadFontLibrary reads a manifest and parses every referenced TTF.
func LoadFontLibrary(manifestPath string) (*FontLibrary, error) {
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read font manifest: %w", err)
	}
	var manifest fontManifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("parse font manifest: %w", err)
	}
	if len(manifest.Fonts) == 0 {
		return nil, fmt.Errorf("font manifest %q lists no fonts", manifestPath)
	}

	lib := &FontLibrary{
		defaultFamily: strings.TrimSpace(manifest.Default),
		families:      make(map[string]*fontVariant),
	}
	for _, entry := range manifest.Fonts {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("font manifest entry missing name")
		}
		variant := &fontVariant{}
		if variant.regular, err = parseTTF(entry.Regular); err != nil {
			return nil, fmt.Errorf("font %q: %w", name, err)
		}
		if entry.Bold != "" {
			if variant.bold, err = parseTTF(entry.Bold); err != nil {
				return nil, fmt.Errorf("font %q bold: %w", name, err)
			}
		}
		if entry.Italic != "" {
			if variant.italic, err = parseTTF(entry.Italic); err != nil {
				return nil, fmt.Errorf("font %q italic: %w", name, err)
			}
		}
		lib.families[name] = variant
	}
	if lib.defaultFamily == "" {
		lib.defaultFamily = strings.TrimSpace(manifest.Fonts[0].Name)
	}
	if _, ok := lib.families[lib.defaultFamily]; !ok {
		return nil, fmt.Errorf("default font family %q not in manifest", lib.defaultFamily)
	}
	return lib, nil
}

// Face returns a face for the family at the given pixel size. Unknown
// families fall back to the default family; missing bold/italic variants
// fall back to regular.
func (fl *FontLibrary) Face(family string, bold, italic bool, size float64) (font.Face, error) {
	if fl == nil {
		return nil, fmt.Errorf("no font library configured")
	}
	if size <= 0 {
		return nil, fmt.Errorf("non-positive font size %v", size)
	}

	fl.mu.RLock()
	variant, ok := fl.families[strings.TrimSpace(family)]
	if !ok {
		variant = fl.families[fl.defaultFamily]
	}
	fl.mu.RUnlock()
	if variant == nil {
		return nil, fmt.Errorf("font family %q not available", family)
	}

	parsed := variant.regular
	if bold && variant.bold != nil {
		parsed = variant.bold
	} else if italic && variant.italic != nil {
		parsed = variant.italic
	}

	return truetype.NewFace(parsed, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

func parseTTF(path string) (*truetype.Font, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty font path")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse TTF: %w", err)
	}
	return parsed, nil
}
