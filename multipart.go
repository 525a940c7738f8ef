package corvid

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/corvidware/corvid/structs"
	"github.com/google/uuid"
)

// buildMultipart encodes params plus its attached files into a
// multipart/form-data body, the shape ExecuteWebhook and the message/
// attachment-creating endpoints require once a caller attaches files:
// content, nonce, and tts each as their own form field, then one file
// part per attachment. The boundary is uuid-prefixed so it can never
// collide with anything a caller's own field values or file contents
// could contain.
//
// Embeds, allowed_mentions, username, and avatar_url have no place in
// that three-field shape, so when any of those are set they ride along
// in an additional payload_json field, the same extension point Discord
// itself later added to this endpoint for exactly this reason.
func buildMultipart(params structs.WebhookMessageParams) (body []byte, contentType string) {
	boundary := "corvid-" + uuid.NewString()

	var buf bytes.Buffer

	writeField := func(name, value string) {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Disposition: form-data; name=\"%s\"\r\n\r\n", name)
		buf.WriteString(value)
		buf.WriteString("\r\n")
	}

	writeField("content", params.Content)
	writeField("nonce", params.Nonce)
	writeField("tts", strconv.FormatBool(params.TTS))

	if extra := buildExtraPayload(params); extra != nil {
		writeField("payload_json", string(extra))
	}

	for i, file := range params.Files {
		name := "file"
		if len(params.Files) > 1 {
			name = fmt.Sprintf("file%d", i)
		}

		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Disposition: form-data; name=\"%s\"; filename=\"%s\"\r\n", name, file.Name)

		ct := file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}

		fmt.Fprintf(&buf, "Content-Type: %s\r\n\r\n", ct)
		buf.Write(file.Reader)
		buf.WriteString("\r\n")
	}

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	return buf.Bytes(), "multipart/form-data; boundary=" + boundary
}

// buildExtraPayload marshals the fields content/nonce/tts can't carry,
// returning nil when none of them are set so no payload_json part is
// written at all.
func buildExtraPayload(params structs.WebhookMessageParams) []byte {
	if params.Username == "" && params.AvatarURL == "" && len(params.Embeds) == 0 && params.AllowedMentions == nil {
		return nil
	}

	extra := struct {
		Username        string                    `json:"username,omitempty"`
		AvatarURL       string                    `json:"avatar_url,omitempty"`
		Embeds          []structs.Embed           `json:"embeds,omitempty"`
		AllowedMentions *structs.AllowedMentions  `json:"allowed_mentions,omitempty"`
	}{
		Username:        params.Username,
		AvatarURL:       params.AvatarURL,
		Embeds:          params.Embeds,
		AllowedMentions: params.AllowedMentions,
	}

	data, err := Marshal(extra)
	if err != nil {
		return nil
	}

	return data
}
