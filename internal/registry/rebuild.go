package registry

import (
	"fmt"

	"github.com/coreupdate/sysupdated/internal/discovery"
	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

// ComponentsRunner is the subset of *worker.Sync that Rebuild needs: a
// synchronous "components" query, optionally scoped to a target. Modeled
// as an interface (rather than importing *worker.Sync directly) so tests
// can substitute a fake without spawning a real worker binary.
type ComponentsRunner interface {
	Run(target *sysupdate.Target, verb string, extra ...string) (map[string]any, error)
}

// Rebuild implements the lazy discovery sequence from spec.md §4.3. It
// returns a freshly populated Targets registry; the caller (event loop)
// swaps it in only when the previous registry was empty or being flushed.
func Rebuild(lister discovery.ImageLister, sync ComponentsRunner) (*Targets, error) {
	out := NewTargets()

	for _, class := range discovery.ImageClasses {
		images, err := lister.ListImages(class)
		if err != nil {
			return nil, fmt.Errorf("list images for class %s: %w", class, err)
		}
		for _, img := range images {
			candidate := &sysupdate.Target{
				Class: class,
				Name:  img.Name,
				Path:  img.Path,
				Kind:  img.Kind,
			}

			doc, err := sync.Run(candidate, "components")
			if err != nil {
				return nil, fmt.Errorf("query components for %s: %w", candidate.StableID(), err)
			}
			if !hasDefault(doc) {
				continue
			}
			out.Put(candidate)
		}
	}

	hostDoc, err := sync.Run(nil, "components")
	if err != nil {
		return nil, fmt.Errorf("query host components: %w", err)
	}

	if hasDefault(hostDoc) {
		out.Put(&sysupdate.Target{Class: sysupdate.ClassHost, Path: "sysupdate.d"})
	}

	for _, name := range componentNames(hostDoc) {
		out.Put(&sysupdate.Target{
			Class: sysupdate.ClassComponent,
			Name:  name,
			Path:  fmt.Sprintf("sysupdate.%s.d", name),
		})
	}

	return out, nil
}

func hasDefault(doc map[string]any) bool {
	v, ok := doc["default"]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func componentNames(doc map[string]any) []string {
	v, ok := doc["components"]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
