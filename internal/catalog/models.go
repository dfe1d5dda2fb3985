package catalog

import (
	"fmt"
	"strings"
	"time"

	"cratepress/internal/services"
)

// Status represents the lifecycle of a catalog item.
type Status string

const (
	StatusDiscovered Status = "discovered"
	StatusCataloged  Status = "cataloged"
	StatusPending    Status = "pending"
	StatusPublished  Status = "published"
	StatusError      Status = "error"
)

var allStatuses = []Status{
	StatusDiscovered,
	StatusCataloged,
	StatusPending,
	StatusPublished,
	StatusError,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// validTransitions encodes the lifecycle state machine. StatusPublished is
// terminal for the pipeline. The direct error -> cataloged edge lets a rerun
// of scan repair a captioning failure without a manual retry step.
var validTransitions = map[Status]map[Status]struct{}{
	StatusDiscovered: {StatusCataloged: {}, StatusError: {}},
	StatusCataloged:  {StatusPublished: {}, StatusError: {}},
	StatusPending:    {StatusPublished: {}, StatusError: {}},
	StatusError:      {StatusPending: {}, StatusCataloged: {}},
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// CanTransition reports whether the state machine allows moving from one
// status to another.
func CanTransition(from, to Status) bool {
	targets, ok := validTransitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// Role classifies a raw asset as one side of a record sleeve.
type Role string

const (
	RoleFront   Role = "front"
	RoleBack    Role = "back"
	RoleUnknown Role = "unknown"
)

// RawAsset is one discovered source file. Immutable once discovered; the
// role is informational and never influences pairing order.
type RawAsset struct {
	ID         string
	Name       string
	Role       Role
	CapturedAt time.Time
}

// Item is one physical record: a front/back image pair backed by a single
// ledger row. The pairing key identifies the item across repeated scans.
type Item struct {
	ID              int64
	PairingKey      string
	FrontAssetID    string
	BackAssetID     string
	FrontURL        string
	BackURL         string
	Status          Status
	Caption         string
	Price           *float64
	PublishAttempts int
	LastError       string
	PublishedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewItem builds a freshly discovered item from a pairing group.
func NewItem(pair Pair) *Item {
	item := &Item{
		PairingKey:   pair.Key,
		FrontAssetID: pair.Front.ID,
		Status:       StatusDiscovered,
	}
	if pair.Back != nil {
		item.BackAssetID = pair.Back.ID
	}
	return item
}

// Incomplete reports whether the item was discovered with only a front side.
func (i *Item) Incomplete() bool {
	return i.BackAssetID == ""
}

// Publishable reports whether the item satisfies the publish selection
// criteria: a retryable status, a caption, and a price.
func (i *Item) Publishable() bool {
	if i.Status != StatusCataloged && i.Status != StatusPending {
		return false
	}
	return strings.TrimSpace(i.Caption) != "" && i.Price != nil
}

// ImageURLs returns the stored image sources in front, back order.
func (i *Item) ImageURLs() []string {
	urls := make([]string, 0, 2)
	if i.FrontURL != "" {
		urls = append(urls, i.FrontURL)
	}
	if i.BackURL != "" {
		urls = append(urls, i.BackURL)
	}
	return urls
}

// Transition moves the item to a new status, enforcing the lifecycle table.
// An invalid transition returns a precondition error and leaves the item
// unchanged.
func (i *Item) Transition(to Status) error {
	if !CanTransition(i.Status, to) {
		return services.Wrap(services.ErrPrecondition, "catalog", "transition",
			fmt.Sprintf("%s -> %s is not allowed", i.Status, to), nil)
	}
	i.Status = to
	return nil
}

// ApplyCaption transitions the item to cataloged with the produced caption.
// An empty caption fails the guard without changing the item.
func (i *Item) ApplyCaption(caption string) error {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return services.Wrap(services.ErrPrecondition, "catalog", "caption", "caption is empty", nil)
	}
	if err := i.Transition(StatusCataloged); err != nil {
		return err
	}
	i.Caption = caption
	i.LastError = ""
	return nil
}

// MarkError records a failure against the item. An item already in error
// keeps its status and only the message is refreshed; published items are
// never regressed.
func (i *Item) MarkError(message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		message = "failure without detail"
	}
	if i.Status != StatusError {
		if err := i.Transition(StatusError); err != nil {
			return err
		}
	}
	i.LastError = message
	return nil
}

// MarkPublished transitions the item to published at the given time. The
// caption guard mirrors the data-model invariant: published implies a
// caption and a publication timestamp.
func (i *Item) MarkPublished(now time.Time) error {
	if strings.TrimSpace(i.Caption) == "" {
		return services.Wrap(services.ErrPrecondition, "catalog", "publish", "item has no caption", nil)
	}
	if err := i.Transition(StatusPublished); err != nil {
		return err
	}
	ts := now.UTC()
	i.PublishedAt = &ts
	i.LastError = ""
	return nil
}

// RequestRetry moves an error item back to pending so the next publish run
// picks it up.
func (i *Item) RequestRetry() error {
	return i.Transition(StatusPending)
}
