package canvas

import (
	"log/slog"

	"drawboard/protocol"
)

// Apply merges one payload into doc.
func Apply(doc *Document, p protocol.Payload) {
	switch p := p.(type) {
	case protocol.AddShape:
		doc.Append(p.Shape)
	case protocol.Clear:
		doc.Clear()
	case protocol.Remove:
		for _, s := range p.Shapes {
			doc.RemoveEqual(s)
		}
	case protocol.Update:
		if !doc.ReplaceEqual(p.From, p.Shape) {
			doc.Append(p.Shape)
		}
	}
}

// Replay applies encoded payloads in order and returns how many were
// skipped as undecodable.
func Replay(doc *Document, messages []string) (skipped int) {
	for _, msg := range messages {
		p, err := protocol.DecodePayload(msg)
		if err != nil {
			slog.Warn("skipping stored event", "error", err)
			skipped++
			continue
		}
		Apply(doc, p)
	}
	return skipped
}
