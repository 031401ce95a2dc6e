package domain

import (
	"regexp"
	"strings"
)

type LinkKind int

const (
	// LinkPublic is a public handle link such as https://t.me/somegroup.
	LinkPublic LinkKind = iota
	// LinkOldInvite is an old-style private invite: https://t.me/joinchat/<hash>.
	LinkOldInvite
	// LinkNewInvite is a new-style private invite: https://t.me/+<hash>.
	LinkNewInvite
)

// GroupLink is one well-formed t.me link token extracted from trigger text.
type GroupLink struct {
	Raw        string
	Kind       LinkKind
	InviteHash string
	Handle     string
}

var linkPattern = regexp.MustCompile(`https?://t\.me/\S+`)

// ExtractLinks returns every t.me link token in text, in order of appearance,
// each classified by link shape. Query parameters are stripped from public
// handles.
func ExtractLinks(text string) []GroupLink {
	raw := linkPattern.FindAllString(text, -1)
	links := make([]GroupLink, 0, len(raw))
	for _, token := range raw {
		links = append(links, classifyLink(token))
	}

	return links
}

func classifyLink(raw string) GroupLink {
	link := GroupLink{Raw: raw}

	switch {
	case strings.Contains(raw, "/joinchat/"):
		link.Kind = LinkOldInvite
		link.InviteHash = trimQuery(raw[strings.LastIndex(raw, "/joinchat/")+len("/joinchat/"):])
	case strings.Contains(raw, "/+"):
		link.Kind = LinkNewInvite
		link.InviteHash = trimQuery(raw[strings.LastIndex(raw, "/+")+len("/+"):])
	default:
		link.Kind = LinkPublic
		link.Handle = trimQuery(raw[strings.LastIndex(raw, "/")+1:])
	}

	return link
}

func trimQuery(s string) string {
	if i := strings.IndexByte(s, '?'); i >= 0 {
		return s[:i]
	}

	return s
}
