// serialize.go - persisted runtime progress (spec.md §4.8, §6): a sequence
// of length-prefixed chunks, each stamped with the md5 of the source it
// belongs to so a reload against mismatched content is rejected rather
// than silently corrupting state.
//
// Grounded on runtime_status.go's flat binary.Write-based status dump
// (same little-endian, fixed-field encoding discipline), generalized from
// one status struct to a chunk stream.

package rcheevos

import (
	"bytes"
	"encoding/binary"
	"io"
)

// ChunkKind tags one record in the serialized stream.
type ChunkKind uint8

const (
	ChunkMemRef ChunkKind = iota
	ChunkTrigger
	ChunkLeaderboard
	ChunkRichPresence
)

// SerializeProgress writes every memref's current/previous/prior, each
// achievement trigger's state and hit counters, each leaderboard's state
// and last value/progress, and the rich presence throttle counter to buf.
// The hit counters inside a leaderboard's start/cancel/submit triggers and
// value are not written.
func (r *Runtime) SerializeProgress(buf *bytes.Buffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writeMemRefChunk(buf); err != nil {
		return err
	}
	for _, id := range r.triggerIDs {
		ct := r.triggers[id]
		if err := writeChunk(buf, ChunkTrigger, ct.sourceMD5, func(w io.Writer) error {
			return writeTriggerState(w, id, ct.trigger)
		}); err != nil {
			return err
		}
	}
	for _, id := range r.lboardIDs {
		cl := r.lboards[id]
		if err := writeChunk(buf, ChunkLeaderboard, cl.sourceMD5, func(w io.Writer) error {
			return writeLboardState(w, id, cl.lboard)
		}); err != nil {
			return err
		}
	}
	if r.richPresence != nil {
		if err := writeChunk(buf, ChunkRichPresence, r.richPresenceMD5, func(w io.Writer) error {
			return binary.Write(w, binary.LittleEndian, uint32(r.rpFrameCounter))
		}); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runtime) writeMemRefChunk(buf *bytes.Buffer) error {
	zero := [16]byte{}
	return writeChunk(buf, ChunkMemRef, zero, func(w io.Writer) error {
		if err := binary.Write(w, binary.LittleEndian, uint32(r.registry.Len())); err != nil {
			return err
		}
		for _, ref := range r.registry.order {
			if err := binary.Write(w, binary.LittleEndian, ref.Address); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, ref.Width); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, ref.Current); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, ref.Previous); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, ref.Prior); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeTriggerState(w io.Writer, id uint32, t *Trigger) error {
	if err := binary.Write(w, binary.LittleEndian, id); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(t.State)); err != nil {
		return err
	}
	if err := writeCondSetHits(w, t.Required); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(t.Alternates))); err != nil {
		return err
	}
	for _, alt := range t.Alternates {
		if err := writeCondSetHits(w, alt); err != nil {
			return err
		}
	}
	return nil
}

func writeCondSetHits(w io.Writer, set *CondSet) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(set.Conditions))); err != nil {
		return err
	}
	for _, c := range set.Conditions {
		if err := binary.Write(w, binary.LittleEndian, c.CurrentHits); err != nil {
			return err
		}
	}
	return nil
}

func writeLboardState(w io.Writer, id uint32, l *Leaderboard) error {
	if err := binary.Write(w, binary.LittleEndian, id); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(l.State)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, l.LastValue); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, l.LastProgress)
}

// writeChunk frames payload (built by fn into a scratch buffer) as
// {kind u8, md5 [16]byte, length u32, payload}.
func writeChunk(buf *bytes.Buffer, kind ChunkKind, sourceMD5 [16]byte, fn func(io.Writer) error) error {
	var payload bytes.Buffer
	if err := fn(&payload); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, uint8(kind)); err != nil {
		return err
	}
	if _, err := buf.Write(sourceMD5[:]); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, uint32(payload.Len())); err != nil {
		return err
	}
	_, err := buf.Write(payload.Bytes())
	return err
}

// DeserializeProgress restores state from a buffer previously produced by
// SerializeProgress. Chunks whose md5 doesn't match the currently active
// item with the same ID are rejected (skipped); unknown chunk kinds are
// skipped by their declared length, per spec.md §6.
func (r *Runtime) DeserializeProgress(data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	br := bytes.NewReader(data)
	for br.Len() > 0 {
		var kindByte uint8
		if err := binary.Read(br, binary.LittleEndian, &kindByte); err != nil {
			return err
		}
		var sourceMD5 [16]byte
		if _, err := io.ReadFull(br, sourceMD5[:]); err != nil {
			return err
		}
		var length uint32
		if err := binary.Read(br, binary.LittleEndian, &length); err != nil {
			return err
		}
		payload := make([]byte, length)
		if _, err := io.ReadFull(br, payload); err != nil {
			return err
		}

		switch ChunkKind(kindByte) {
		case ChunkMemRef:
			r.readMemRefChunk(payload)
		case ChunkTrigger:
			r.readTriggerChunk(payload, sourceMD5)
		case ChunkLeaderboard:
			r.readLboardChunk(payload, sourceMD5)
		case ChunkRichPresence:
			if r.richPresence != nil && r.richPresenceMD5 == sourceMD5 {
				pr := bytes.NewReader(payload)
				var counter uint32
				binary.Read(pr, binary.LittleEndian, &counter)
				r.rpFrameCounter = int(counter)
			}
		default:
			// unknown chunk kind: already skipped by having consumed
			// exactly `length` bytes above.
		}
	}
	return nil
}

func (r *Runtime) readMemRefChunk(payload []byte) {
	pr := bytes.NewReader(payload)
	var count uint32
	if binary.Read(pr, binary.LittleEndian, &count) != nil {
		return
	}
	for i := uint32(0); i < count; i++ {
		var address, current, previous, prior uint32
		var width uint8
		if binary.Read(pr, binary.LittleEndian, &address) != nil {
			return
		}
		if binary.Read(pr, binary.LittleEndian, &width) != nil {
			return
		}
		if binary.Read(pr, binary.LittleEndian, &current) != nil {
			return
		}
		if binary.Read(pr, binary.LittleEndian, &previous) != nil {
			return
		}
		if binary.Read(pr, binary.LittleEndian, &prior) != nil {
			return
		}
		ref := r.registry.Intern(address, width)
		ref.Current, ref.Previous, ref.Prior = current, previous, prior
	}
}

func (r *Runtime) readTriggerChunk(payload []byte, sourceMD5 [16]byte) {
	pr := bytes.NewReader(payload)
	var id uint32
	if binary.Read(pr, binary.LittleEndian, &id) != nil {
		return
	}
	ct, ok := r.triggers[id]
	if !ok || ct.sourceMD5 != sourceMD5 {
		return
	}
	var state uint8
	binary.Read(pr, binary.LittleEndian, &state)
	ct.trigger.State = TriggerState(state)
	readCondSetHits(pr, ct.trigger.Required)
	var altCount uint32
	binary.Read(pr, binary.LittleEndian, &altCount)
	for i := uint32(0); i < altCount && int(i) < len(ct.trigger.Alternates); i++ {
		readCondSetHits(pr, ct.trigger.Alternates[i])
	}
}

func readCondSetHits(pr *bytes.Reader, set *CondSet) {
	var count uint32
	if binary.Read(pr, binary.LittleEndian, &count) != nil {
		return
	}
	for i := uint32(0); i < count && int(i) < len(set.Conditions); i++ {
		binary.Read(pr, binary.LittleEndian, &set.Conditions[i].CurrentHits)
	}
}

func (r *Runtime) readLboardChunk(payload []byte, sourceMD5 [16]byte) {
	pr := bytes.NewReader(payload)
	var id uint32
	if binary.Read(pr, binary.LittleEndian, &id) != nil {
		return
	}
	cl, ok := r.lboards[id]
	if !ok || cl.sourceMD5 != sourceMD5 {
		return
	}
	var state uint8
	binary.Read(pr, binary.LittleEndian, &state)
	cl.lboard.State = LboardState(state)
	binary.Read(pr, binary.LittleEndian, &cl.lboard.LastValue)
	binary.Read(pr, binary.LittleEndian, &cl.lboard.LastProgress)
}
