/*
Package history keeps the edit history of a text document built on the ot algebra.

A Document holds the current text and the log of every change applied to it.
Each change is tagged with the site that authored it. Local changes can be
undone and redone, and changes authored against an older revision can be
rebased over the log before being applied.

When two concurrent changes insert text at the same position, the one from the
site with the smaller UUID goes first, so two replicas that receive the pair in
different orders still converge. Convergence over longer histories requires
every replica to see changes in the same order, e.g., the order of a central log.

A Document is not safe for concurrent use.
*/
package history

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/brunokim/textop/ot"
	"github.com/google/uuid"
)

var (
	uuidv1 = randomUUIDv1 // Stubbed for mocking in mocks_test.go
)

// Errors returned by Document operations.
var (
	ErrUnknownRevision = errors.New("unknown revision")
	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrNothingToRedo   = errors.New("nothing to redo")
)

// +-----------------------+
// | Basic data structures |
// +-----------------------+

// Change is an entry in the history log.
type Change struct {
	// Site is the ID of the site that authored this change.
	Site uuid.UUID
	// Seq is the edit, valid for the document at the previous revision.
	Seq *ot.Sequence
}

func (c Change) String() string {
	return fmt.Sprintf("Change(%v,%v)", c.Site, c.Seq)
}

// Document is a text with its history of changes.
type Document struct {
	// SiteID is this document's site UUIDv1, used to tag local changes.
	SiteID uuid.UUID

	text    string
	changes []Change
	// undo and redo are stacks of edits valid for the current text, with the
	// next edit to be applied at the end.
	undo, redo []*ot.Sequence
}

// New creates a document with the given initial text at revision 0.
func New(text string) *Document {
	return &Document{
		SiteID: uuidv1(),
		text:   text,
	}
}

// Text returns the current text.
func (d *Document) Text() string {
	return d.text
}

// Revision returns the number of changes applied to this document.
func (d *Document) Revision() int {
	return len(d.changes)
}

// Changes returns the changes applied after revision from.
func (d *Document) Changes(from int) ([]Change, error) {
	if err := d.checkRevision(from); err != nil {
		return nil, err
	}
	return append([]Change(nil), d.changes[from:]...), nil
}

func (d *Document) checkRevision(rev int) error {
	if rev < 0 || rev > len(d.changes) {
		return fmt.Errorf("%w: %d (current revision is %d)", ErrUnknownRevision, rev, len(d.changes))
	}
	return nil
}

func (d *Document) commit(site uuid.UUID, seq *ot.Sequence) error {
	text, err := seq.Apply(d.text)
	if err != nil {
		return err
	}
	d.text = text
	d.changes = append(d.changes, Change{Site: site, Seq: seq})
	return nil
}

// +----------+
// | Ordering |
// +----------+

// priority returns which side wins an insertion tie between a change from site
// and one from other.
func priority(site, other uuid.UUID) ot.Side {
	if bytes.Compare(site[:], other[:]) <= 0 {
		return ot.Left
	}
	return ot.Right
}

// +---------------+
// | Local changes |
// +---------------+

// Apply applies a local edit, making it the next change to be undone.
func (d *Document) Apply(seq *ot.Sequence) error {
	inverse, err := ot.Invert(seq, d.text)
	if err != nil {
		return err
	}
	if err := d.commit(d.SiteID, seq); err != nil {
		return err
	}
	d.undo = append(d.undo, inverse)
	d.redo = nil
	return nil
}

// CanUndo returns whether there's a local change to undo.
func (d *Document) CanUndo() bool {
	return len(d.undo) > 0
}

// CanRedo returns whether there's an undone change to redo.
func (d *Document) CanRedo() bool {
	return len(d.redo) > 0
}

// Undo reverts the latest local change that was not undone yet.
//
// The undo is itself recorded as a new change in the log.
func (d *Document) Undo() error {
	if len(d.undo) == 0 {
		return ErrNothingToUndo
	}
	seq := d.undo[len(d.undo)-1]
	inverse, err := ot.Invert(seq, d.text)
	if err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	if err := d.commit(d.SiteID, seq); err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	d.undo = d.undo[:len(d.undo)-1]
	d.redo = append(d.redo, inverse)
	return nil
}

// Redo applies again the latest undone change.
func (d *Document) Redo() error {
	if len(d.redo) == 0 {
		return ErrNothingToRedo
	}
	seq := d.redo[len(d.redo)-1]
	inverse, err := ot.Invert(seq, d.text)
	if err != nil {
		return fmt.Errorf("redo: %w", err)
	}
	if err := d.commit(d.SiteID, seq); err != nil {
		return fmt.Errorf("redo: %w", err)
	}
	d.redo = d.redo[:len(d.redo)-1]
	d.undo = append(d.undo, inverse)
	return nil
}

// +----------------+
// | Remote changes |
// +----------------+

// Rebase transforms seq, authored by site against revision base, so that it can
// be applied to the current text.
func (d *Document) Rebase(site uuid.UUID, seq *ot.Sequence, base int) (*ot.Sequence, error) {
	if err := d.checkRevision(base); err != nil {
		return nil, err
	}
	for i, change := range d.changes[base:] {
		var err error
		seq, _, err = ot.TransformPriority(seq, change.Seq, priority(site, change.Site))
		if err != nil {
			return nil, fmt.Errorf("rebase over revision %d: %w", base+i+1, err)
		}
	}
	return seq, nil
}

// ApplyRemote rebases and applies seq, authored by site against revision base.
// It returns the rebased edit, as it was recorded in the log.
//
// Pending undo and redo edits are transformed to account for the new change.
func (d *Document) ApplyRemote(site uuid.UUID, seq *ot.Sequence, base int) (*ot.Sequence, error) {
	rebased, err := d.Rebase(site, seq, base)
	if err != nil {
		return nil, err
	}
	undo, err := transformStack(d.undo, rebased, priority(d.SiteID, site))
	if err != nil {
		return nil, fmt.Errorf("transforming undo stack: %w", err)
	}
	redo, err := transformStack(d.redo, rebased, priority(d.SiteID, site))
	if err != nil {
		return nil, fmt.Errorf("transforming redo stack: %w", err)
	}
	if err := d.commit(site, rebased); err != nil {
		return nil, err
	}
	d.undo, d.redo = undo, redo
	return rebased, nil
}

// transformStack rebases every edit in stack over seq, which is valid for the
// same text as the top of the stack. Edits that become no-ops are dropped.
func transformStack(stack []*ot.Sequence, seq *ot.Sequence, winner ot.Side) ([]*ot.Sequence, error) {
	var result []*ot.Sequence
	for i := len(stack) - 1; i >= 0; i-- {
		entry, next, err := ot.TransformPriority(stack[i], seq, winner)
		if err != nil {
			return nil, err
		}
		if !entry.IsNoop() {
			result = append(result, entry)
		}
		// seq must be valid after stack[i] is applied, for the next entry.
		seq = next
	}
	// Reverse to restore the top of the stack at the end.
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result, nil
}

// +------------+
// | Compaction |
// +------------+

// Squash composes the changes in revisions (from, to] into a single edit, valid
// for the text at revision from.
func (d *Document) Squash(from, to int) (*ot.Sequence, error) {
	if err := d.checkRevision(from); err != nil {
		return nil, err
	}
	if err := d.checkRevision(to); err != nil {
		return nil, err
	}
	if from > to {
		return nil, fmt.Errorf("%w: squash range (%d, %d] is empty", ErrUnknownRevision, from, to)
	}
	if from == to {
		seq := ot.NewSequence()
		if err := seq.Retain(d.lengthAt(from)); err != nil {
			return nil, fmt.Errorf("squash revision %d: %w", from, err)
		}
		return seq, nil
	}
	seq := d.changes[from].Seq.Clone()
	for i, change := range d.changes[from+1 : to] {
		var err error
		if seq, err = ot.Compose(seq, change.Seq); err != nil {
			return nil, fmt.Errorf("squash revision %d: %w", from+i+2, err)
		}
	}
	return seq, nil
}

// lengthAt returns the text length at the given revision.
func (d *Document) lengthAt(rev int) int {
	if rev < len(d.changes) {
		return d.changes[rev].Seq.BaseLen()
	}
	if len(d.changes) > 0 {
		return d.changes[len(d.changes)-1].Seq.TargetLen()
	}
	return utf8.RuneCountInString(d.text)
}

// +-----------+
// | Utilities |
// +-----------+

// Provides a random MAC address.
func randomMAC() []byte {
	mac := make([]byte, 6)
	if _, err := io.ReadFull(rand.Reader, mac); err != nil {
		panic(err.Error())
	}
	return mac
}

// Create UUIDv1, using local timestamp as lower bits and random MAC.
func randomUUIDv1() uuid.UUID {
	uuid.SetNodeID(randomMAC())
	id, err := uuid.NewUUID()
	if err != nil {
		panic(fmt.Sprintf("creating UUIDv1: %v", err))
	}
	return id
}
