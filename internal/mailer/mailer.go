package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"

	"google.golang.org/api/gmail/v1"
)

// BuildMessage assembles an RFC 822 message with a plain-text body and one
// PDF attachment, ready to be base64url-encoded for the Gmail API. The sender
// address is left to the transport: Gmail fills in the authenticated account.
func BuildMessage(to, subject, body, filename string, attachment []byte) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n", mw.Boundary())
	buf.WriteString("\r\n")

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", `text/plain; charset="utf-8"`)
	part, err := mw.CreatePart(textHeader)
	if err != nil {
		return nil, fmt.Errorf("BuildMessage: text part: %w", err)
	}
	if _, err := part.Write([]byte(body)); err != nil {
		return nil, fmt.Errorf("BuildMessage: write body: %w", err)
	}

	attHeader := textproto.MIMEHeader{}
	attHeader.Set("Content-Type", fmt.Sprintf("application/pdf; name=%q", filename))
	attHeader.Set("Content-Transfer-Encoding", "base64")
	attHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	part, err = mw.CreatePart(attHeader)
	if err != nil {
		return nil, fmt.Errorf("BuildMessage: attachment part: %w", err)
	}
	if err := writeBase64(part, attachment); err != nil {
		return nil, fmt.Errorf("BuildMessage: write attachment: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("BuildMessage: close multipart: %w", err)
	}

	return buf.Bytes(), nil
}

// writeBase64 emits standard base64 wrapped at 76 columns, the conventional
// line length for a base64 content-transfer-encoding.
func writeBase64(w io.Writer, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	const lineLen = 76
	for len(encoded) > 0 {
		n := lineLen
		if n > len(encoded) {
			n = len(encoded)
		}
		if _, err := io.WriteString(w, encoded[:n]+"\r\n"); err != nil {
			return err
		}
		encoded = encoded[n:]
	}
	return nil
}

// GmailSender delivers messages through the Gmail API on behalf of the
// authenticated account.
type GmailSender struct {
	svc *gmail.Service
}

// NewGmailSender creates a sender bound to an authenticated Gmail service.
func NewGmailSender(svc *gmail.Service) *GmailSender {
	return &GmailSender{svc: svc}
}

// Send builds and submits one message. Success means the API accepted the
// request; there is no delivery-status polling and no retry here.
func (s *GmailSender) Send(ctx context.Context, to, subject, body, filename string, attachment []byte) error {
	raw, err := BuildMessage(to, subject, body, filename, attachment)
	if err != nil {
		return err
	}

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}

	if _, err := s.svc.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("Send: gmail send to %s: %w", to, err)
	}

	return nil
}
