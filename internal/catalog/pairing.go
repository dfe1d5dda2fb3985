package catalog

import (
	"fmt"
	"sort"
	"time"
)

// dateBucketLayout coarsens capture timestamps to the source's update
// granularity: one bucket per UTC day.
const dateBucketLayout = "2006-01-02"

// Pair is one pairing group: a front asset and an optional back asset that
// together represent one physical record. Key is the deterministic pairing
// key (date bucket plus 1-based sequence index within the bucket).
type Pair struct {
	Key   string
	Front RawAsset
	Back  *RawAsset
}

// Incomplete reports whether the group was formed from an odd trailing asset.
func (p Pair) Incomplete() bool {
	return p.Back == nil
}

// PairAssets groups raw assets into ordered front/back pairs. Assets are
// bucketed by capture date, sorted by capture timestamp ascending within each
// bucket (ties broken by asset ID so output is identical across runs), and
// taken two at a time in encounter order. An odd trailing asset forms an
// incomplete pair. Empty input yields an empty result. Pure function; the
// input slice is not modified.
func PairAssets(assets []RawAsset) []Pair {
	if len(assets) == 0 {
		return nil
	}

	buckets := make(map[string][]RawAsset)
	for _, asset := range assets {
		day := asset.CapturedAt.UTC().Format(dateBucketLayout)
		buckets[day] = append(buckets[day], asset)
	}

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)

	var pairs []Pair
	for _, day := range days {
		bucket := buckets[day]
		sort.Slice(bucket, func(a, b int) bool {
			if bucket[a].CapturedAt.Equal(bucket[b].CapturedAt) {
				return bucket[a].ID < bucket[b].ID
			}
			return bucket[a].CapturedAt.Before(bucket[b].CapturedAt)
		})

		for i := 0; i < len(bucket); i += 2 {
			pair := Pair{
				Key:   PairingKey(bucket[i].CapturedAt, i/2+1),
				Front: bucket[i],
			}
			if i+1 < len(bucket) {
				back := bucket[i+1]
				pair.Back = &back
			}
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

// PairingKey builds the stable item key from a capture time and the 1-based
// sequence index within the capture-date bucket.
func PairingKey(capturedAt time.Time, sequence int) string {
	return fmt.Sprintf("%s-%03d", capturedAt.UTC().Format(dateBucketLayout), sequence)
}
