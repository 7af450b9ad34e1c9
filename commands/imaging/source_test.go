package imaging

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"HelpBot/bot"

	"github.com/bwmarrin/discordgo"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceFromMessage(t *testing.T) {
	author := &discordgo.User{ID: "1", Avatar: "abc"}
	member := &discordgo.User{ID: "2", Avatar: "def"}
	attachment := &discordgo.MessageAttachment{URL: "https://cdn.example.com/cat.png", Filename: "cat.png"}
	notImage := &discordgo.MessageAttachment{URL: "https://cdn.example.com/notes.txt", Filename: "notes.txt", ContentType: "text/plain"}

	tests := []struct {
		name string
		msg  *discordgo.Message
		args []string
		want string
	}{
		{"author avatar", &discordgo.Message{Author: author}, nil, author.AvatarURL(avatarSize)},
		{"mention", &discordgo.Message{Author: author, Mentions: []*discordgo.User{member}}, []string{"<@2>"}, member.AvatarURL(avatarSize)},
		{"url", &discordgo.Message{Author: author}, []string{"<https://example.com/a.jpg>"}, "https://example.com/a.jpg"},
		{"attachment wins", &discordgo.Message{Author: author, Mentions: []*discordgo.User{member}, Attachments: []*discordgo.MessageAttachment{attachment}}, nil, attachment.URL},
		{"non-image attachment skipped", &discordgo.Message{Author: author, Attachments: []*discordgo.MessageAttachment{notImage}}, nil, author.AvatarURL(avatarSize)},
		{"not a url", &discordgo.Message{Author: author}, []string{"ftp://example.com/x"}, author.AvatarURL(avatarSize)},
		{"loopback url", &discordgo.Message{Author: author}, []string{"http://127.0.0.1:8080/a.png"}, author.AvatarURL(avatarSize)},
		{"localhost url", &discordgo.Message{Author: author}, []string{"http://LocalHost/a.png"}, author.AvatarURL(avatarSize)},
		{"private url", &discordgo.Message{Author: author}, []string{"https://192.168.1.5/a.png"}, author.AvatarURL(avatarSize)},
		{"metadata url", &discordgo.Message{Author: author}, []string{"http://169.254.169.254/latest"}, author.AvatarURL(avatarSize)},
		{"ipv6 loopback url", &discordgo.Message{Author: author}, []string{"http://[::1]/a.png"}, author.AvatarURL(avatarSize)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SourceFromMessage(tt.msg, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := SourceFromMessage(&discordgo.Message{}, nil)
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestSourceFromUser(t *testing.T) {
	invoker := &discordgo.User{ID: "1", Avatar: "abc"}
	target := &discordgo.User{ID: "2", Avatar: "def"}

	got, err := SourceFromUser(target, invoker)
	require.NoError(t, err)
	assert.Equal(t, target.AvatarURL(avatarSize), got)

	got, err = SourceFromUser(nil, invoker)
	require.NoError(t, err)
	assert.Equal(t, invoker.AvatarURL(avatarSize), got)

	_, err = SourceFromUser(nil, nil)
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestParseInvocation(t *testing.T) {
	name, rest, err := parseInvocation("filter", filters, []string{"sepia", "<@2>"})
	require.NoError(t, err)
	assert.Equal(t, "sepia", name)
	assert.Equal(t, []string{"<@2>"}, rest)

	name, rest, err = parseInvocation("filter", filters, []string{"FILTER", "Invert"})
	require.NoError(t, err)
	assert.Equal(t, "invert", name)
	assert.Empty(t, rest)

	_, _, err = parseInvocation("filter", filters, []string{"filter"})
	assert.ErrorIs(t, err, ErrUnknownEffect)
}

func pngServer(t *testing.T) *httptest.Server {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(8, 8, color.NRGBA{R: 0, G: 100, B: 255, A: 255})))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(buf.Bytes())
		case "/garbage":
			w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchAndRender(t *testing.T) {
	srv := pngServer(t)
	client := resty.New()

	img, err := Fetch(context.Background(), client, srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(8, 8), img.Bounds().Size())

	out, err := Render(img, Invert)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 155, B: 0, A: 255}, at(decoded, 4, 4))
}

func TestFetchErrors(t *testing.T) {
	srv := pngServer(t)
	client := resty.New()

	_, err := Fetch(context.Background(), client, srv.URL+"/missing.png")
	assert.ErrorContains(t, err, "status 404")

	_, err = Fetch(context.Background(), client, srv.URL+"/garbage")
	assert.ErrorContains(t, err, "decode")
}

// pngHeader returns a valid PNG whose header claims width x height. Only the
// header is checked before decoding, so the pixel data can stay tiny.
func pngHeader(t *testing.T, width, height uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))

	b := buf.Bytes()
	// IHDR: length 8:12, type 12:16, width 16:20, height 20:24, crc 29:33
	binary.BigEndian.PutUint32(b[16:20], width)
	binary.BigEndian.PutUint32(b[20:24], height)
	binary.BigEndian.PutUint32(b[29:33], crc32.ChecksumIEEE(b[12:29]))
	return b
}

func TestFetchRejectsOversizedDimensions(t *testing.T) {
	huge := pngHeader(t, 20000, 20000)
	wide := pngHeader(t, 1<<30, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		if r.URL.Path == "/wide.png" {
			w.Write(wide)
			return
		}
		w.Write(huge)
	}))
	t.Cleanup(srv.Close)

	cfg, err := png.DecodeConfig(bytes.NewReader(huge))
	require.NoError(t, err)
	require.Equal(t, 20000, cfg.Width)

	_, err = Fetch(context.Background(), resty.New(), srv.URL+"/huge.png")
	assert.ErrorIs(t, err, ErrImageTooLarge)
	assert.ErrorContains(t, err, "20000x20000")

	_, err = Fetch(context.Background(), resty.New(), srv.URL+"/wide.png")
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestFetchRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(make([]byte, maxImageBytes+1))
	}))
	t.Cleanup(srv.Close)

	_, err := Fetch(context.Background(), resty.New(), srv.URL+"/big.png")
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestFetchRefusesPrivateHosts(t *testing.T) {
	srv := pngServer(t)

	_, err := Fetch(context.Background(), bot.NewHTTPClient(), srv.URL+"/ok.png")
	assert.ErrorIs(t, err, bot.ErrPrivateAddress)
	assert.Equal(t, "I can only fetch images from public addresses.", failureText(err))
}

func TestFailureText(t *testing.T) {
	assert.Equal(t, "That image is too large.", failureText(fmt.Errorf("%w: 1x1", ErrImageTooLarge)))
	assert.Equal(t, "I couldn't find an image to work on.", failureText(ErrNoImage))
	assert.Equal(t, "Sorry, I couldn't process that image.", failureText(fmt.Errorf("boom")))
}
