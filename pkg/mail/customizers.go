// SPDX-FileCopyrightText: 2024 Deutsche Telekom AG
// SPDX-License-Identifier: Apache-2.0

package mail

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// MarkdownBody renders plain-text bodies as Markdown and switches the
// message to text/html. Bodies already flagged HTML are left untouched, as
// are bodies goldmark fails to convert.
func MarkdownBody() Customizer {
	md := goldmark.New()
	return CustomizerFunc(func(client *Client, _ EmailMessageRequest) {
		msg := client.Message
		if msg == nil || msg.HTML {
			return
		}
		var buf bytes.Buffer
		if err := md.Convert([]byte(msg.Body), &buf); err != nil {
			return
		}
		msg.Body = buf.String()
		msg.HTML = true
	})
}

// SanitizeHTML strips unsafe markup from HTML bodies. A nil policy uses
// bluemonday's UGC policy. Plain-text bodies are not modified.
func SanitizeHTML(policy *bluemonday.Policy) Customizer {
	if policy == nil {
		policy = bluemonday.UGCPolicy()
	}
	return CustomizerFunc(func(client *Client, _ EmailMessageRequest) {
		if client.Message == nil || !client.Message.HTML {
			return
		}
		client.Message.Body = policy.Sanitize(client.Message.Body)
	})
}
