package portal

import (
	"bytes"
	"errors"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// loginForm holds the fields scraped from the portal's login page.
type loginForm struct {
	Action    string
	CSRFToken string
	Next      string
}

// parseLoginForm locates the login form (id="loginform", falling back to the
// first form on the page) and pulls out the hidden fields the POST needs.
func parseLoginForm(page []byte) (*loginForm, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}

	node := findNode(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "form" && attr(n, "id") == "loginform"
	})
	if node == nil {
		node = findNode(doc, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "form"
		})
	}
	if node == nil {
		return nil, errors.New("no form element on login page")
	}

	form := &loginForm{Action: attr(node, "action")}

	if csrf := findNode(node, inputNamed("csrfmiddlewaretoken")); csrf != nil {
		form.CSRFToken = attr(csrf, "value")
	}
	if next := findNode(node, inputNamed("next")); next != nil {
		form.Next = attr(next, "value")
	}

	return form, nil
}

// classifyLoginResponse decides whether the post-login page represents a
// successful session. The portal gives no structured signal, so this mirrors
// what a member would see: a logout link means in, an error list means
// rejected, landing back on the login page means rejected.
func classifyLoginResponse(finalURL *url.URL, page []byte) error {
	lower := strings.ToLower(string(page))

	if strings.Contains(lower, "logout") || strings.Contains(lower, "sign out") || strings.Contains(lower, "log out") {
		return nil
	}

	if strings.Contains(lower, "invalid") || strings.Contains(lower, "incorrect") || strings.Contains(lower, "error") {
		msg := "incorrect credentials"
		if errText := errorListText(page); errText != "" {
			msg = errText
		}
		return &FetchError{Reason: ReasonLoginRejected, Message: msg}
	}

	if redirectedToLogin(finalURL) {
		return &FetchError{Reason: ReasonLoginRejected, Message: "redirected back to login"}
	}

	return nil
}

// errorListText extracts the portal's rendered form error, if any.
func errorListText(page []byte) string {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return ""
	}
	node := findNode(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, cls := range strings.Fields(attr(n, "class")) {
			if cls == "errorlist" {
				return true
			}
		}
		return false
	})
	if node == nil {
		return ""
	}
	return strings.TrimSpace(nodeText(node))
}

func inputNamed(name string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "input" && attr(n, "name") == name
	}
}

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}
