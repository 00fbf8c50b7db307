package persona

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/juntosfibro/fibrochat/internal/models"
	"go.uber.org/zap"
)

func TestLookup(t *testing.T) {
	for _, name := range []Persona{Support, Admin} {
		if _, err := Lookup(name); err != nil {
			t.Errorf("Lookup(%q) returned error: %v", name, err)
		}
	}

	if _, err := Lookup("moderator"); err == nil {
		t.Error("Lookup() with unknown persona should fail")
	}
}

func TestProfilePolicies(t *testing.T) {
	support, _ := Lookup(Support)
	admin, _ := Lookup(Admin)

	if !support.Screened {
		t.Error("support persona must be severity-screened")
	}
	if support.AllowsAttachments {
		t.Error("support persona must not accept attachments")
	}
	if admin.Screened {
		t.Error("admin persona must not be severity-screened")
	}
	if !admin.AllowsAttachments || admin.MaxAttachments != 5 {
		t.Errorf("admin persona should allow up to 5 attachments, got %d", admin.MaxAttachments)
	}
}

func TestBuildPrompt(t *testing.T) {
	profile, _ := Lookup(Support)

	prompt := BuildPrompt(profile, "Oi", nil)

	want := profile.SystemPrompt + "\n\nPergunta do usuário: Oi"
	if prompt.Text != want {
		t.Errorf("BuildPrompt() text = %q, want %q", prompt.Text, want)
	}
	if len(prompt.Attachments) != 0 {
		t.Errorf("BuildPrompt() attached %d parts, want 0", len(prompt.Attachments))
	}
}

func TestBuildPrompt_PlaceholderForFileOnlyInput(t *testing.T) {
	profile, _ := Lookup(Admin)
	attachments := []models.Attachment{{MimeType: "image/png", Data: []byte{1, 2, 3}}}

	prompt := BuildPrompt(profile, "", attachments)

	if !strings.HasSuffix(prompt.Text, "Pergunta do usuário: "+FilesOnlyPlaceholder) {
		t.Errorf("BuildPrompt() with empty text = %q, want placeholder", prompt.Text)
	}
	if len(prompt.Attachments) != 1 {
		t.Errorf("BuildPrompt() attached %d parts, want 1", len(prompt.Attachments))
	}
}

func TestBuildPrompt_SupportDropsAttachments(t *testing.T) {
	profile, _ := Lookup(Support)
	attachments := []models.Attachment{{MimeType: "image/png", Data: []byte{1}}}

	prompt := BuildPrompt(profile, "Oi", attachments)

	if len(prompt.Attachments) != 0 {
		t.Error("support prompt must never forward attachments")
	}
}

func TestBuildPrompt_AttachmentOrderPreserved(t *testing.T) {
	profile, _ := Lookup(Admin)
	attachments := []models.Attachment{
		{MimeType: "image/png", Data: []byte{1}},
		{MimeType: "application/pdf", Data: []byte{2}},
	}

	prompt := BuildPrompt(profile, "analise", attachments)

	if len(prompt.Attachments) != 2 {
		t.Fatalf("BuildPrompt() attached %d parts, want 2", len(prompt.Attachments))
	}
	if prompt.Attachments[0].MimeType != "image/png" || prompt.Attachments[1].MimeType != "application/pdf" {
		t.Error("BuildPrompt() reordered attachments")
	}
}

func TestDecodeDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("hello"))

	tests := []struct {
		name     string
		uri      string
		wantMime string
		wantData string
		wantErr  bool
	}{
		{
			name:     "valid png",
			uri:      "data:image/png;base64," + payload,
			wantMime: "image/png",
			wantData: "hello",
		},
		{
			name:     "valid pdf",
			uri:      "data:application/pdf;base64," + payload,
			wantMime: "application/pdf",
			wantData: "hello",
		},
		{
			name:    "missing prefix",
			uri:     "image/png;base64," + payload,
			wantErr: true,
		},
		{
			name:    "missing semicolon",
			uri:     "data:image/png," + payload,
			wantErr: true,
		},
		{
			name:    "invalid base64",
			uri:     "data:image/png;base64,???not-base64???",
			wantErr: true,
		},
		{
			name:    "empty string",
			uri:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attachment, err := DecodeDataURI(tt.uri)
			if tt.wantErr {
				if err == nil {
					t.Errorf("DecodeDataURI(%q) should fail", tt.uri)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeDataURI(%q) error: %v", tt.uri, err)
			}
			if attachment.MimeType != tt.wantMime {
				t.Errorf("MimeType = %q, want %q", attachment.MimeType, tt.wantMime)
			}
			if string(attachment.Data) != tt.wantData {
				t.Errorf("Data = %q, want %q", attachment.Data, tt.wantData)
			}
		})
	}
}

func TestDecodedSize(t *testing.T) {
	encode := func(n int) string {
		return "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(make([]byte, n))
	}

	tests := []struct {
		name string
		uri  string
		want int
	}{
		{"no padding", encode(3), 3},
		{"one pad byte", encode(2), 2},
		{"two pad bytes", encode(4), 4},
		{"empty payload", "data:image/png;base64,", 0},
		{"no comma", "data:image/png;base64", 0},
		{"five megabytes", encode(5 * 1024 * 1024), 5 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodedSize(tt.uri); got != tt.want {
				t.Errorf("DecodedSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDecodeAttachments_DropsMalformed(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("ok"))
	uris := []string{
		"data:image/png;base64," + payload,
		"not-a-data-uri",
		"data:image/jpeg;base64," + payload,
	}

	attachments := DecodeAttachments(uris, zap.NewNop())

	if len(attachments) != 2 {
		t.Fatalf("DecodeAttachments() kept %d, want 2", len(attachments))
	}
	if attachments[0].MimeType != "image/png" || attachments[1].MimeType != "image/jpeg" {
		t.Error("DecodeAttachments() did not preserve order of valid entries")
	}
}
