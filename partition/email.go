package partition

import (
	"bytes"
	"io"
	"strings"

	"github.com/elemstage/elemstage/element"
	"github.com/emersion/go-message/mail"
)

// emailPartitioner emits sender/subject elements from the headers followed
// by classified elements from the text/plain body.
type emailPartitioner struct{}

// NewEmail returns a Partitioner for RFC 5322 .eml content.
func NewEmail() Partitioner {
	return &emailPartitioner{}
}

func (p *emailPartitioner) Partition(data []byte, metadata element.Metadata) (element.Elements, error) {
	mr, err := mail.CreateReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	meta := metadata.Clone()
	if meta == nil {
		meta = element.Metadata{}
	}
	var out element.Elements
	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		meta[element.MetaSender] = from[0].Address
		out = append(out, element.New(element.EmailSender, from[0].String(), meta.Clone()))
	}
	if to, err := mr.Header.AddressList("To"); err == nil && len(to) > 0 {
		meta[element.MetaRecipient] = to[0].Address
	}
	if subject, err := mr.Header.Subject(); err == nil && subject != "" {
		meta[element.MetaSubject] = subject
		out = append(out, element.New(element.EmailSubject, subject, meta.Clone()))
	}
	if date, err := mr.Header.Date(); err == nil && !date.IsZero() {
		meta[element.MetaDate] = date
	}

	body := ""
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := header.ContentType()
		if !strings.HasPrefix(contentType, "text/plain") {
			continue
		}
		if b, err := io.ReadAll(part.Body); err == nil {
			body = string(b)
			break
		}
	}
	for _, block := range textBlocks([]byte(body)) {
		out = append(out, element.New(classifyBlock(block), block, meta.Clone()))
	}
	return out, nil
}
