package backup

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/common"
)

// Policy decides what Export does with items whose content is a LocalBinary.
type Policy int

const (
	// PolicyReject fails the export with common.ErrNonDurableContent.
	PolicyReject Policy = iota
	// PolicyUpgrade uploads each payload and replaces it with the durable URL.
	PolicyUpgrade
	// PolicyEmbed writes the payload inline as base64 fileData.
	PolicyEmbed
)

func (p Policy) String() string {
	switch p {
	case PolicyReject:
		return "reject"
	case PolicyUpgrade:
		return "upgrade"
	case PolicyEmbed:
		return "embed"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts the names returned by String; "" means PolicyReject.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return PolicyReject, nil
	case "upgrade":
		return PolicyUpgrade, nil
	case "embed":
		return PolicyEmbed, nil
	}
	return PolicyReject, fmt.Errorf("unknown export policy %q", s)
}

// Uploader turns a payload into a durable URL. feed.Adapter satisfies it.
type Uploader interface {
	UploadBinary(ctx context.Context, name string, bin archive.LocalBinary) (string, error)
}

// NonDurable returns the ids of items whose content only exists locally.
func NonDurable(its []archive.Item) []string {
	var ids []string
	for _, it := range its {
		if !it.IsDurable() {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// Prepare applies the policy to its. It returns the items to export and,
// for PolicyUpgrade, the subset that was upgraded so the caller can persist
// the new durable references. its is not modified.
func Prepare(ctx context.Context, its []archive.Item, p Policy, up Uploader) (out, upgraded []archive.Item, err error) {
	switch p {
	case PolicyEmbed:
		return its, nil, nil
	case PolicyReject:
		if ids := NonDurable(its); len(ids) > 0 {
			return nil, nil, fmt.Errorf("%w: %s", common.ErrNonDurableContent, strings.Join(ids, ", "))
		}
		return its, nil, nil
	case PolicyUpgrade:
		if up == nil {
			return nil, nil, fmt.Errorf("upgrade policy needs an uploader")
		}
	default:
		return nil, nil, fmt.Errorf("unknown export policy %v", p)
	}

	out = make([]archive.Item, len(its))
	for i, it := range its {
		bin, ok := it.Binary()
		if !ok {
			out[i] = it
			continue
		}
		url, err := up.UploadBinary(ctx, it.Title, bin)
		if err != nil {
			return nil, nil, fmt.Errorf("upgrade %s: %w", it.ID, err)
		}
		it.Content = archive.RemoteContent{URL: url}
		it.SessionRef = ""
		if it.Type == archive.TypePhoto {
			it.Image = url
		}
		out[i] = it
		upgraded = append(upgraded, it)
	}
	return out, upgraded, nil
}
