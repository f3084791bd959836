package service

import (
	"context"

	"github.com/voxarena/arena-go/internal/model"
	"github.com/voxarena/arena-go/internal/storage"
)

// Synthesizer renders audio for a single provider.
type Synthesizer interface {
	Synthesize(ctx context.Context, providerID, text string) ([]byte, error)
	SynthesizeScript(ctx context.Context, providerID string, script []model.ScriptLine) ([]byte, error)
}

// AudioGenerator produces comparison pairs: both sides rendered
// concurrently and persisted as artifacts in the given directory.
type AudioGenerator struct {
	synth Synthesizer
	store *storage.Store
}

func NewAudioGenerator(synth Synthesizer, store *storage.Store) *AudioGenerator {
	return &AudioGenerator{synth: synth, store: store}
}

type sideResult struct {
	path string
	err  error
}

// Pair synthesizes the text with both providers in parallel and stores the
// results in dir. If either side fails, any artifact already written is
// removed and the whole pair fails.
func (g *AudioGenerator) Pair(ctx context.Context, text, providerA, providerB, dir string) (string, string, error) {
	render := func(providerID string, out chan<- sideResult) {
		audio, err := g.synth.Synthesize(ctx, providerID, text)
		if err != nil {
			out <- sideResult{err: err}
			return
		}
		path, err := g.store.Save(dir, audio)
		out <- sideResult{path: path, err: err}
	}

	chA := make(chan sideResult, 1)
	chB := make(chan sideResult, 1)
	go render(providerA, chA)
	go render(providerB, chB)

	resA, resB := <-chA, <-chB
	return g.settle(resA, resB)
}

// ScriptPair is the conversational variant of Pair.
func (g *AudioGenerator) ScriptPair(ctx context.Context, script []model.ScriptLine, providerA, providerB, dir string) (string, string, error) {
	render := func(providerID string, out chan<- sideResult) {
		audio, err := g.synth.SynthesizeScript(ctx, providerID, script)
		if err != nil {
			out <- sideResult{err: err}
			return
		}
		path, err := g.store.Save(dir, audio)
		out <- sideResult{path: path, err: err}
	}

	chA := make(chan sideResult, 1)
	chB := make(chan sideResult, 1)
	go render(providerA, chA)
	go render(providerB, chB)

	resA, resB := <-chA, <-chB
	return g.settle(resA, resB)
}

func (g *AudioGenerator) settle(resA, resB sideResult) (string, string, error) {
	if resA.err != nil || resB.err != nil {
		g.store.Remove(resA.path)
		g.store.Remove(resB.path)
		if resA.err != nil {
			return "", "", resA.err
		}
		return "", "", resB.err
	}
	return resA.path, resB.path, nil
}
