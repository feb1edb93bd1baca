package persona

import (
	"strings"
	"sync"

	"github.com/kbukum/voxpersona/llm"
	"github.com/kbukum/voxpersona/logger"
)

// Source builds an llm.Provider that talks to baseURL.
type Source func(baseURL string) (llm.Provider, error)

// Pool hands out one Extractor per generator base URL, so a changed API base
// in the persisted settings takes effect on the next call.
type Pool struct {
	source Source
	cfg    Config
	log    *logger.Logger

	mu    sync.Mutex
	byURL map[string]*Extractor
}

// NewPool creates a Pool.
func NewPool(source Source, cfg Config, log *logger.Logger) *Pool {
	return &Pool{source: source, cfg: cfg, log: log, byURL: make(map[string]*Extractor)}
}

// For returns the Extractor for baseURL, creating it on first use.
func (p *Pool) For(baseURL string) (*Extractor, error) {
	key := strings.TrimRight(strings.TrimSpace(baseURL), "/")

	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.byURL[key]; ok {
		return e, nil
	}
	prov, err := p.source(key)
	if err != nil {
		return nil, err
	}
	e := NewExtractor(prov, p.cfg, p.log)
	p.byURL[key] = e
	return e, nil
}
