// ABOUTME: Presentation state for the API key list
// ABOUTME: Tracks per-key visibility and masks secret material for display

package keylist

import (
	"github.com/atotto/clipboard"

	"github.com/bgremover/cli/internal/client"
)

// Masking shows the first 8 and last 4 characters of the secret
const (
	maskPrefixLen = 8
	maskSuffixLen = 4
)

// Presenter holds the displayed key list and its visibility flags. Every
// refresh resets all keys to masked; visibility never survives a refresh.
type Presenter struct {
	keys    []client.APIKey
	visible map[int]bool
}

// New creates an empty presenter
func New() *Presenter {
	return &Presenter{visible: make(map[int]bool)}
}

// SetKeys replaces the displayed list. All keys start masked.
func (p *Presenter) SetKeys(keys []client.APIKey) {
	p.keys = keys
	p.visible = make(map[int]bool)
}

// Keys returns the displayed list
func (p *Presenter) Keys() []client.APIKey {
	return p.keys
}

// Toggle flips the visibility flag for a key id
func (p *Presenter) Toggle(id int) {
	p.visible[id] = !p.visible[id]
}

// Visible reports whether a key's secret is currently shown in full
func (p *Presenter) Visible(id int) bool {
	return p.visible[id]
}

// Display returns the secret for a toggled-visible key, masked otherwise
func (p *Presenter) Display(k client.APIKey) string {
	if p.visible[k.ID] {
		return k.Key
	}
	return Mask(k.Key)
}

// Copy writes the full secret to the system clipboard
func (p *Presenter) Copy(k client.APIKey) error {
	return clipboard.WriteAll(k.Key)
}

// Mask obscures secret material for display. Secrets too short to mask
// meaningfully are returned as-is rather than panicking on a slice.
func Mask(key string) string {
	if len(key) < maskPrefixLen+maskSuffixLen {
		return key
	}
	return key[:maskPrefixLen] + "..." + key[len(key)-maskSuffixLen:]
}
