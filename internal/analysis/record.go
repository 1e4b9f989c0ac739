package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/commitscope/commitscope-go/internal/models"
)

// SignatureMode names the policy used to derive a change signature.
// FileStats is preferred; PatchHash is the documented degradation used when
// the API returns no per-file stats for a commit; SignatureNone means the
// record carried no change information at all and the fingerprint falls back
// to message-only identity.
type SignatureMode string

const (
	SignatureFileStats SignatureMode = "stats"
	SignaturePatchHash SignatureMode = "patch"
	SignatureNone      SignatureMode = "none"
)

// CommitRecord is one observed occurrence of a commit on one branch,
// normalized into the strict internal shape the pipeline operates on.
type CommitRecord struct {
	SHA             string        `json:"sha"`
	Author          string        `json:"author"`
	Message         string        `json:"message"`
	Timestamp       time.Time     `json:"timestamp"`
	ParentCount     int           `json:"parent_count"`
	ChangeSignature string        `json:"change_signature"`
	SignatureMode   SignatureMode `json:"signature_mode"`
	Branch          string        `json:"branch"`
	Repository      string        `json:"repository"`
}

// Normalize converts raw branch entries into CommitRecords. Entries missing
// any of sha, message, or timestamp are dropped with a recorded warning and
// never abort the run.
func Normalize(raw []models.RawCommit) ([]CommitRecord, []Warning) {
	records := make([]CommitRecord, 0, len(raw))
	var warnings []Warning

	for _, rc := range raw {
		if rc.SHA == "" || rc.Message == "" || rc.Timestamp.IsZero() {
			warnings = append(warnings, Warning{
				Code: WarnMalformedRecord,
				Message: fmt.Sprintf("dropped malformed entry on branch %s (sha=%q): missing required fields",
					rc.Branch, rc.SHA),
			})
			continue
		}

		sig, mode := changeSignature(rc)
		records = append(records, CommitRecord{
			SHA:             rc.SHA,
			Author:          resolveAuthor(rc),
			Message:         rc.Message,
			Timestamp:       rc.Timestamp.UTC(),
			ParentCount:     len(rc.ParentSHAs),
			ChangeSignature: sig,
			SignatureMode:   mode,
			Branch:          rc.Branch,
			Repository:      rc.Repository,
		})
	}

	return records, warnings
}

// resolveAuthor prefers the platform login; the name+email pair is the
// fallback so the same person still dedups across branches.
func resolveAuthor(rc models.RawCommit) string {
	if rc.AuthorLogin != "" {
		return rc.AuthorLogin
	}
	name := strings.TrimSpace(rc.AuthorName)
	email := strings.TrimSpace(rc.AuthorEmail)
	switch {
	case name != "" && email != "":
		return fmt.Sprintf("%s <%s>", name, email)
	case name != "":
		return name
	case email != "":
		return email
	}
	return "unknown"
}

// changeSignature derives the deterministic content summary for a commit.
// File lists are sorted by path before hashing so iteration order can never
// leak into the value. The returned signature embeds its mode so downstream
// consumers can tell a stat summary from a patch-hash degradation.
func changeSignature(rc models.RawCommit) (string, SignatureMode) {
	if len(rc.Files) > 0 {
		files := make([]models.FileChange, len(rc.Files))
		copy(files, rc.Files)
		sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

		var sb strings.Builder
		for _, f := range files {
			fmt.Fprintf(&sb, "%s|+%d|-%d\n", f.Path, f.Additions, f.Deletions)
		}
		return string(SignatureFileStats) + ":" + hashHex(sb.String()), SignatureFileStats
	}

	if rc.Patch != "" {
		return string(SignaturePatchHash) + ":" + hashHex(rc.Patch), SignaturePatchHash
	}

	return string(SignatureNone), SignatureNone
}

func hashHex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
