package rules

import (
	"embed"
	"sync"

	"github.com/kuderr/sakurs-go/pkg/sakerr"
)

//go:embed langdata/*.yaml
var bundledFS embed.FS

var bundledFiles = map[string]string{
	"en": "langdata/en.yaml",
	"ja": "langdata/ja.yaml",
}

var (
	bundledOnce  sync.Once
	bundledCache map[string]*Rules
	bundledErr   map[string]error
)

func loadBundled() {
	bundledCache = make(map[string]*Rules, len(bundledFiles))
	bundledErr = make(map[string]error, len(bundledFiles))
	for code, path := range bundledFiles {
		data, err := bundledFS.ReadFile(path)
		if err != nil {
			bundledErr[code] = err
			continue
		}
		rules, err := Load(data)
		if err != nil {
			bundledErr[code] = err
			continue
		}
		bundledCache[code] = rules
	}
}

// Bundled returns the LanguageRules compiled from the sakurs-go-shipped
// YAML document for a language code ("en", "ja"). The result is shared
// and must not be mutated; Rules has no exported mutators, so this is
// safe by construction.
func Bundled(code string) (*Rules, error) {
	bundledOnce.Do(loadBundled)
	if r, ok := bundledCache[code]; ok {
		return r, nil
	}
	if err, ok := bundledErr[code]; ok {
		return nil, sakerr.NewConfigError("bundled rules for "+code+" failed to compile", err)
	}
	return nil, &sakerr.UnsupportedLanguageError{Language: code}
}

// BundledCodes lists the language codes shipped with sakurs-go.
func BundledCodes() []string {
	codes := make([]string, 0, len(bundledFiles))
	for code := range bundledFiles {
		codes = append(codes, code)
	}
	return codes
}

// Registry resolves a language code to a Rules value, checking
// caller-registered overrides before falling back to the bundled set.
// A Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	override map[string]*Rules
}

// NewRegistry returns an empty Registry backed by the bundled
// languages.
func NewRegistry() *Registry {
	return &Registry{override: map[string]*Rules{}}
}

// Register installs rules under code, shadowing any bundled rules for
// that same code.
func (reg *Registry) Register(code string, rules *Rules) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.override[code] = rules
}

// Get resolves code to a Rules value, preferring a registered override
// over the bundled set.
func (reg *Registry) Get(code string) (*Rules, error) {
	reg.mu.RLock()
	r, ok := reg.override[code]
	reg.mu.RUnlock()
	if ok {
		return r, nil
	}
	return Bundled(code)
}
