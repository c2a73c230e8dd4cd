package composer

import (
	"strings"

	"github.com/coverly/advisor/internal/profile"
)

// SystemInstruction is the fixed system-role message sent ahead of every
// composed prompt. It frames the assistant's role and constraints for the
// provider; the advisory endpoint never varies it per request.
const SystemInstruction = `You are an AI insurance assistant designed to provide personalized insurance recommendations and evaluations.

You are given the client's profile information, the names of any policy documents they uploaded, and their question. Ground your advice in the profile details that were actually provided; when key information is missing, say what else you would need rather than guessing. Recommend coverage types and considerations, not specific dollar amounts you cannot justify. Do not provide legal or tax advice; suggest a licensed professional where appropriate. Keep answers clear and practical.`

// Marker and section strings below are a contract with the provider's
// prompt framing. The downstream model sees these exact strings on every
// call; changing any of them changes model behavior.
const (
	profileHeader = "User Profile Information:"
	queryHeader   = "User Query:"
	filesPrefix   = "Uploaded policy documents: "

	// NoProfileMarker replaces the profile section when no field is set.
	NoProfileMarker = "No profile information provided."
	// NoFilesMarker replaces the files line when nothing was uploaded.
	NoFilesMarker = "No policy documents uploaded."
)

// Prompt is the composed user-role message plus the flags describing what
// context was actually present when it was built.
type Prompt struct {
	Text            string
	ProfileReceived bool
	FilesReceived   bool
}

// Compose renders the message, a profile snapshot, and the attachment
// names into a single prompt body. It is a pure function: identical
// inputs produce byte-identical output.
//
// Profile fields are listed in their declared order, skipping fields whose
// trimmed value is empty; values themselves pass through unmodified.
// Attachment names appear comma-joined in selection order, never the
// attachment bytes, which are transport-only. An empty message is
// accepted; the composer does not police input, the UI does.
func Compose(message string, p profile.Profile, attachmentNames []string) Prompt {
	var lines []string
	for _, f := range p.Fields() {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		lines = append(lines, "- "+f.Name+": "+f.Value)
	}

	profileSection := NoProfileMarker
	if len(lines) > 0 {
		profileSection = strings.Join(lines, "\n")
	}

	filesLine := NoFilesMarker
	if len(attachmentNames) > 0 {
		filesLine = filesPrefix + strings.Join(attachmentNames, ", ")
	}

	var sb strings.Builder
	sb.WriteString(profileHeader)
	sb.WriteByte('\n')
	sb.WriteString(profileSection)
	sb.WriteString("\n\n")
	sb.WriteString(filesLine)
	sb.WriteString("\n\n")
	sb.WriteString(queryHeader)
	sb.WriteByte('\n')
	sb.WriteString(message)

	return Prompt{
		Text:            strings.TrimSpace(sb.String()),
		ProfileReceived: len(lines) > 0,
		FilesReceived:   len(attachmentNames) > 0,
	}
}
