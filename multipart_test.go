package corvid

import (
	"strings"
	"testing"

	"github.com/corvidware/corvid/structs"
	"github.com/stretchr/testify/assert"
)

func TestBuildMultipartWritesContentNonceTTSAndFileParts(t *testing.T) {
	body, contentType := buildMultipart(structs.WebhookMessageParams{
		Content: "hello",
		Nonce:   "abc123",
		TTS:     true,
		Files: []structs.File{
			{Name: "a.txt", ContentType: "text/plain", Reader: []byte("data")},
		},
	})

	assert.Contains(t, contentType, "multipart/form-data; boundary=")

	s := string(body)
	assert.Contains(t, s, `name="content"`)
	assert.Contains(t, s, "\r\n\r\nhello\r\n")
	assert.Contains(t, s, `name="nonce"`)
	assert.Contains(t, s, "\r\n\r\nabc123\r\n")
	assert.Contains(t, s, `name="tts"`)
	assert.Contains(t, s, "\r\n\r\ntrue\r\n")
	assert.Contains(t, s, `name="file"; filename="a.txt"`)
	assert.Contains(t, s, "Content-Type: text/plain")
	assert.True(t, strings.HasSuffix(s, "--\r\n"))
}

func TestBuildMultipartNamesMultipleFilesByIndex(t *testing.T) {
	body, _ := buildMultipart(structs.WebhookMessageParams{
		Files: []structs.File{
			{Name: "a.txt", Reader: []byte("a")},
			{Name: "b.txt", Reader: []byte("b")},
		},
	})

	s := string(body)
	assert.Contains(t, s, `name="file0"; filename="a.txt"`)
	assert.Contains(t, s, `name="file1"; filename="b.txt"`)
}

func TestBuildMultipartOmitsPayloadJSONWhenNoExtraFields(t *testing.T) {
	body, _ := buildMultipart(structs.WebhookMessageParams{Content: "hi"})

	assert.NotContains(t, string(body), "payload_json")
}

func TestBuildMultipartCarriesEmbedsViaPayloadJSON(t *testing.T) {
	body, _ := buildMultipart(structs.WebhookMessageParams{
		Content: "hi",
		Embeds:  []structs.Embed{{Title: "t"}},
	})

	s := string(body)
	assert.Contains(t, s, `name="payload_json"`)
	assert.Contains(t, s, `"embeds"`)
}
