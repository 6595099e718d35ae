// Package fingerprint derives content signatures that change only when a
// control's substantive catalog text changes.
//
// A fingerprint covers the control title, the (name, id, prose) of every part
// in its part tree and the (id, label) of every parameter. Props, class and
// links are not covered, so cosmetic catalog edits such as a new sort-id do not
// register as a change. Text is NFC-normalised and runs of whitespace are
// collapsed before hashing; the structure is serialised with RFC 8785 JSON
// canonicalisation so the result does not depend on encoder key order.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strings"

	"github.com/gowebpki/jcs"
	"golang.org/x/text/unicode/norm"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
)

// Prefix marks the hash algorithm of a fingerprint.
const Prefix = "sha256:"

// Length is the fixed width of every fingerprint.
const Length = len(Prefix) + sha256.Size*2

// shape is the canonical input to the hash.
type shape struct {
	Title  string      `json:"title"`
	Parts  [][3]string `json:"parts"`
	Params [][2]string `json:"params"`
}

// Compute returns the fingerprint of ctrl.
func Compute(ctrl *catalogs.Control) string {
	if ctrl == nil {
		return ""
	}
	return hash(shapeOf(ctrl.Title, ctrl.Parts, ctrl.Params))
}

// Valid reports whether fp is well formed.
func Valid(fp string) bool {
	if len(fp) != Length || !strings.HasPrefix(fp, Prefix) {
		return false
	}
	_, err := hex.DecodeString(fp[len(Prefix):])
	return err == nil
}

func shapeOf(title string, parts []catalogs.Part, params []catalogs.Param) shape {
	s := shape{
		Title:  Normalize(title),
		Parts:  [][3]string{},
		Params: [][2]string{},
	}
	for i := range parts {
		parts[i].Walk(func(p *catalogs.Part) {
			s.Parts = append(s.Parts, [3]string{Normalize(p.Name), Normalize(p.ID), Normalize(p.Prose)})
		})
	}
	slices.SortFunc(s.Parts, func(a, b [3]string) int {
		return slices.Compare(a[:], b[:])
	})
	for _, p := range params {
		s.Params = append(s.Params, [2]string{Normalize(p.ID), Normalize(p.Label)})
	}
	slices.SortFunc(s.Params, func(a, b [2]string) int {
		return slices.Compare(a[:], b[:])
	})
	return s
}

func hash(s shape) string {
	sum := sha256.Sum256(mustCanonical(s))
	return Prefix + hex.EncodeToString(sum[:])
}

// mustCanonical encodes a value made only of strings; neither step can fail.
func mustCanonical(v any) []byte {
	data, err := Canonical(v)
	if err != nil {
		panic("fingerprint: canonical encoding failed: " + err.Error())
	}
	return data
}

// Normalize applies Unicode NFC and collapses whitespace runs to one space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Canonical returns the RFC 8785 canonical JSON encoding of v.
func Canonical(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jcs.Transform(data)
}

// Digest returns the sha256 hex digest of v's canonical JSON encoding.
func Digest(v any) (string, error) {
	data, err := Canonical(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
