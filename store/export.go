package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/kbukum/voxpersona/database"
)

const exportRule = "=================================================="

// ExportTranscriptions renders a client's transcriptions, oldest first, as
// one text document. Each entry has a header with file name, date and
// language followed by the translated text when present, else the original.
// When ids are given only those transcriptions are included.
func (s *Store) ExportTranscriptions(ctx context.Context, clientID uint, ids ...uint) (string, error) {
	if _, err := s.GetClient(ctx, clientID); err != nil {
		return "", err
	}
	q := s.session(ctx).Where("client_id = ?", clientID)
	if len(ids) > 0 {
		q = q.Where("id IN ?", slices.Compact(slices.Sorted(slices.Values(ids))))
	}
	var ts []Transcription
	if err := q.Order("created_at").Order("id").Find(&ts).Error; err != nil {
		return "", database.FromDatabase(err, "transcription", "")
	}
	return FormatExport(ts), nil
}

// FormatExport renders transcriptions in the bulk export layout.
func FormatExport(ts []Transcription) string {
	var b strings.Builder
	for _, t := range ts {
		fmt.Fprintf(&b, "\n%s\n", exportRule)
		fmt.Fprintf(&b, "File: %s\n", t.Filename)
		fmt.Fprintf(&b, "Date: %s\n", t.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&b, "Language: %s\n", t.Language())
		fmt.Fprintf(&b, "%s\n\n", exportRule)
		b.WriteString(t.Text())
		b.WriteString("\n\n")
	}
	return b.String()
}
