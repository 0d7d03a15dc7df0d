package inspect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"robotdriver/domain/entities"
	"robotdriver/infrastructure/browser/browsertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopSnapshot = `
- banner:
  - link "Website for automation practice":
    - /url: /
    - img "Website for automation practice"
  - list:
    - listitem:
      - link " Home":
        - /url: /
    - listitem:
      - link " Signup / Login":
        - /url: /login
- heading "Login to your account" [level=2]
- textbox "Email Address": user@example.com
- textbox "Password"
- button "Login"
- paragraph: Your email or password is incorrect!
- text: "Rs. 500"
`

func str(s string) *string { return &s }

func TestParseSnapshot(t *testing.T) {
	root, err := ParseSnapshot(shopSnapshot)
	require.NoError(t, err)
	assert.Equal(t, "WebArea", root.Role)
	require.Len(t, root.Children, 7)

	banner := root.Children[0]
	assert.Equal(t, "banner", banner.Role)
	assert.Nil(t, banner.Name)
	require.Len(t, banner.Children, 2)

	logo := banner.Children[0]
	assert.Equal(t, "link", logo.Role)
	assert.Equal(t, str("Website for automation practice"), logo.Name)
	require.Len(t, logo.Children, 1, "/url properties are not nodes")
	assert.Equal(t, "img", logo.Children[0].Role)

	heading := root.Children[1]
	assert.Equal(t, "heading", heading.Role)
	assert.Equal(t, str("Login to your account"), heading.Name)

	email := root.Children[2]
	assert.Equal(t, str("Email Address"), email.Name)
	assert.Equal(t, str("user@example.com"), email.Value)

	paragraph := root.Children[5]
	require.Len(t, paragraph.Children, 1)
	assert.Equal(t, "text", paragraph.Children[0].Role)
	assert.Equal(t, str("Your email or password is incorrect!"), paragraph.Children[0].Name)

	text := root.Children[6]
	assert.Equal(t, "text", text.Role)
	assert.Equal(t, str("Rs. 500"), text.Name)
}

func TestParseSnapshotEmpty(t *testing.T) {
	root, err := ParseSnapshot("  \n")
	require.NoError(t, err)
	assert.Equal(t, &entities.A11yNode{Role: "WebArea"}, root)
}

func TestParseSnapshotRejectsNonList(t *testing.T) {
	_, err := ParseSnapshot("banner: oops")
	assert.Error(t, err)
}

func TestParseHeaderEscapes(t *testing.T) {
	node := parseHeader(`link "Say \"hi\"" [disabled]`)
	assert.Equal(t, "link", node.Role)
	assert.Equal(t, str(`Say "hi"`), node.Name)

	node = parseHeader(`link /Log(in|out)/`)
	assert.Equal(t, str("/Log(in|out)/"), node.Name)
}

func wideTree(depth, width int) *entities.A11yNode {
	node := &entities.A11yNode{Role: "group", Name: str(fmt.Sprintf("d%d", depth))}
	if depth == 0 {
		return node
	}
	for i := 0; i < width; i++ {
		node.Children = append(node.Children, wideTree(depth-1, width))
	}
	return node
}

func TestPruneBoundsDepthAndWidth(t *testing.T) {
	tree := wideTree(3, 35)

	pruned := Prune(tree, 2, MaxChildren)
	require.Len(t, pruned.Children, MaxChildren)
	require.Len(t, pruned.Children[0].Children, MaxChildren)
	assert.Nil(t, pruned.Children[0].Children[0].Children)
	assert.Equal(t, str("d1"), pruned.Children[0].Children[0].Name)
}

func TestPruneZeroDepth(t *testing.T) {
	pruned := Prune(wideTree(2, 3), 0, MaxChildren)
	assert.Nil(t, pruned.Children)
	assert.Nil(t, Prune(nil, 2, MaxChildren))
}

func TestDescribe(t *testing.T) {
	page := browsertest.NewPage()
	page.Snapshot = shopSnapshot
	page.OnGoto = func(p *browsertest.Page, url string) {
		p.CurrentURL = strings.TrimSuffix(url, "/") + "/login"
	}

	desc, err := Describe(context.Background(), page, "https://automationexercise.com/", 1)
	require.NoError(t, err)
	assert.Equal(t, "https://automationexercise.com/login", desc.URL)
	require.Len(t, desc.A11y.Children, 7)
	assert.Nil(t, desc.A11y.Children[0].Children)
}

func TestDescribeNavigationError(t *testing.T) {
	page := browsertest.NewPage()
	page.GotoErr = errors.New("net::ERR_NAME_NOT_RESOLVED")

	_, err := Describe(context.Background(), page, "https://nowhere.invalid", DefaultDepth)
	assert.EqualError(t, err, "net::ERR_NAME_NOT_RESOLVED")
}
