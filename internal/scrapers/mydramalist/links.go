package mydramalist

import (
	"net/url"
	"strings"
)

const DefaultBaseUrl = "https://mydramalist.com"

// IdFromPath returns the second segment of a link's path, that is the segment right
// after the leading slash. "/12345-my-drama/cast" -> "12345-my-drama".
// Absolute links are reduced to their path first.
func IdFromPath(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	path := link
	if parsed, err := url.Parse(link); err == nil && parsed.Host != "" {
		path = parsed.Path
	}
	segments := strings.Split(path, "/")
	if len(segments) < 2 {
		return ""
	}
	id := segments[1]
	if i := strings.IndexAny(id, "?#"); i >= 0 {
		id = id[:i]
	}
	return id
}

// AbsoluteUrl joins a site-relative link onto baseUrl. Links that already carry a
// scheme are returned untouched.
func AbsoluteUrl(baseUrl, link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if strings.HasPrefix(link, "http") {
		return link
	}
	if strings.HasPrefix(link, "//") {
		return "https:" + link
	}
	base := strings.TrimRight(baseUrl, "/")
	if !strings.HasPrefix(link, "/") {
		link = "/" + link
	}
	return base + link
}

// Urls builds page urls for a given site.
type Urls struct {
	BaseUrl string
}

func (u Urls) base() string {
	if u.BaseUrl == "" {
		return DefaultBaseUrl
	}
	return strings.TrimRight(u.BaseUrl, "/")
}

func (u Urls) Search(query string) string {
	return u.base() + "/search?q=" + url.QueryEscape(query) + "&adv=titles&so=relevance"
}

func (u Urls) Details(id string) string {
	return u.base() + "/" + id
}

func (u Urls) Cast(id string) string {
	return u.Details(id) + "/cast"
}

func (u Urls) Recommendations(id string) string {
	return u.Details(id) + "/recommendations"
}

func (u Urls) Reviews(id string) string {
	return u.Details(id) + "/reviews"
}
