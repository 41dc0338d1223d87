package docmerge

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDocumentError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewDocumentError("write", "out.docx", cause)

	if !strings.Contains(err.Error(), "write") || !strings.Contains(err.Error(), "out.docx") {
		t.Errorf("error message = %q", err)
	}
	if !errors.Is(err, cause) {
		t.Error("cause should be unwrappable")
	}
	if !IsDocumentError(err) {
		t.Error("IsDocumentError should match")
	}
	if !IsDocumentError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("IsDocumentError should match through wrapping")
	}
}

func TestDocumentErrorMessageForms(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"path and cause", NewDocumentError("read", "a.docx", errors.New("boom")),
			"document error during read of 'a.docx': boom"},
		{"path only", NewDocumentError("read", "a.docx", nil),
			"document error during read of 'a.docx'"},
		{"cause only", NewDocumentError("open", "", errors.New("boom")),
			"document error during open: boom"},
		{"bare", NewDocumentError("close", "", nil),
			"document error during close"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewParseError("document structure", cause)

	if !strings.Contains(err.Error(), "document structure") {
		t.Errorf("error message = %q", err)
	}
	if !errors.Is(err, cause) {
		t.Error("cause should be unwrappable")
	}
}

func TestSectionErrorPredicates(t *testing.T) {
	notFound := &SectionNotFoundError{Name: "items"}
	unterminated := &UnterminatedSectionError{Name: "items", BlockIndex: 4}
	orphan := &OrphanEndMarkerError{Name: "items", BlockIndex: 2}

	if !IsSectionNotFound(notFound) || IsSectionNotFound(unterminated) {
		t.Error("IsSectionNotFound misclassified")
	}
	if !IsUnterminatedSection(unterminated) || IsUnterminatedSection(notFound) {
		t.Error("IsUnterminatedSection misclassified")
	}
	if !IsOrphanEndMarker(orphan) || IsOrphanEndMarker(unterminated) {
		t.Error("IsOrphanEndMarker misclassified")
	}
	if IsSectionNotFound(nil) || IsUnterminatedSection(nil) || IsOrphanEndMarker(nil) {
		t.Error("predicates should reject nil")
	}
	if !strings.Contains(unterminated.Error(), "block 4") {
		t.Errorf("unterminated message = %q", unterminated.Error())
	}
	if !strings.Contains(orphan.Error(), "block 2") {
		t.Errorf("orphan message = %q", orphan.Error())
	}
}
