// Package provider defines the shared shape of voxpersona's pluggable
// backends: speech-to-text, translation and text generation.
//
// Each backend package exposes a Factory that builds its provider from the
// free-form options map of the application config. A Registry maps provider
// names (as written in config) to factories.
//
//	reg := provider.NewRegistry[transcription.Provider]()
//	reg.RegisterFactory("whisper", whisper.Factory)
//	p, err := reg.Create(cfg.Provider, cfg.Options)
package provider
