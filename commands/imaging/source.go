package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/netip"
	"net/url"
	"strings"

	"HelpBot/bot"

	"github.com/bwmarrin/discordgo"
	"github.com/go-resty/resty/v2"
	_ "golang.org/x/image/webp"
)

var (
	ErrNoImage       = errors.New("no image to work on")
	ErrImageTooLarge = errors.New("image too large")
)

const (
	avatarSize    = "512"
	maxImageBytes = 8 << 20
	maxPixels     = 16 << 20
)

// SourceFromMessage picks the image a prefix command works on. An attachment
// wins over a mentioned member, which wins over a URL argument. Without any
// of them the author's avatar is used.
func SourceFromMessage(m *discordgo.Message, args []string) (string, error) {
	for _, a := range m.Attachments {
		if isImageAttachment(a) {
			return a.URL, nil
		}
	}
	if len(m.Mentions) > 0 {
		return m.Mentions[0].AvatarURL(avatarSize), nil
	}
	for _, arg := range args {
		if isHTTPURL(arg) {
			return strings.Trim(arg, "<>"), nil
		}
	}
	if m.Author != nil {
		return m.Author.AvatarURL(avatarSize), nil
	}
	return "", ErrNoImage
}

// SourceFromUser is the slash variant: the chosen user, or else the invoker.
func SourceFromUser(target, invoker *discordgo.User) (string, error) {
	if target != nil {
		return target.AvatarURL(avatarSize), nil
	}
	if invoker != nil {
		return invoker.AvatarURL(avatarSize), nil
	}
	return "", ErrNoImage
}

func isImageAttachment(a *discordgo.MessageAttachment) bool {
	if strings.HasPrefix(a.ContentType, "image/") {
		return true
	}
	name := strings.ToLower(a.Filename)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".webp"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// isHTTPURL accepts http(s) URLs whose host is not obviously internal. The
// HTTP client still checks the address it actually dials.
func isHTTPURL(s string) bool {
	u, err := url.Parse(strings.Trim(s, "<>"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" || host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return false
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return bot.PublicAddr(addr)
	}
	return true
}

// Fetch downloads and decodes the image at src. Bodies over maxImageBytes and
// images over maxPixels are refused before they are decoded.
func Fetch(ctx context.Context, client *resty.Client, src string) (image.Image, error) {
	resp, err := client.R().
		SetContext(ctx).
		SetResponseBodyLimit(maxImageBytes).
		SetHeader("Accept", "image/*").
		Get(src)
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		return nil, fmt.Errorf("%w: over %d bytes", ErrImageTooLarge, maxImageBytes)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch %s: status %d", src, resp.StatusCode())
	}

	body := resp.Body()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxPixels/cfg.Height {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	return img, nil
}

// Render applies effect to src and encodes the result as PNG.
func Render(src image.Image, effect Effect) ([]byte, error) {
	out := effect(Fit(src, maxDimension))

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
