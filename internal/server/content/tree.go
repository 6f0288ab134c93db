package content

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophfeedback/internal/common"
	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// FeedbackSettings is the "feedback" section of a content file.
type FeedbackSettings struct {
	SiteContentTypes []string        `yaml:"siteContentTypes"`
	PageContentTypes []string        `yaml:"pageContentTypes"`
	Ratings          []models.Rating `yaml:"ratings"`
	Statuses         []models.Status `yaml:"statuses"`
}

type nodeDoc struct {
	ID          int             `yaml:"id"`
	Key         uuid.UUID       `yaml:"key"`
	Name        string          `yaml:"name"`
	ContentType string          `yaml:"contentType"`
	Domains     []string        `yaml:"domains"`
	Ratings     []models.Rating `yaml:"ratings"`
	Statuses    []models.Status `yaml:"statuses"`
	Children    []nodeDoc       `yaml:"children"`
}

type userDoc struct {
	ID       int       `yaml:"id"`
	Key      uuid.UUID `yaml:"key"`
	Name     string    `yaml:"name"`
	Email    string    `yaml:"email"`
	Approved *bool     `yaml:"approved"`
}

type document struct {
	Feedback   FeedbackSettings                        `yaml:"feedback"`
	Nodes      []nodeDoc                               `yaml:"nodes"`
	Users      []userDoc                               `yaml:"users"`
	Dictionary map[string]map[string]map[string]string `yaml:"dictionary"`
}

// Tree is an immutable, in-memory content hierarchy loaded from YAML.
// It implements Provider, UserDirectory and Localizer.
type Tree struct {
	settings   FeedbackSettings
	nodes      map[uuid.UUID]*Node
	parents    map[uuid.UUID]uuid.UUID
	users      []models.User
	dictionary map[string]map[string]map[string]string
}

var (
	_ Provider      = (*Tree)(nil)
	_ UserDirectory = (*Tree)(nil)
	_ Localizer     = (*Tree)(nil)
)

// LoadTree reads and parses a YAML content file.
func LoadTree(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	return ParseTree(data)
}

// ParseTree parses a YAML content document.
func ParseTree(data []byte) (*Tree, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse content file: %w", err)
	}

	t := &Tree{
		settings:   doc.Feedback,
		nodes:      make(map[uuid.UUID]*Node),
		parents:    make(map[uuid.UUID]uuid.UUID),
		dictionary: doc.Dictionary,
	}

	for _, n := range doc.Nodes {
		if err := t.add(n, uuid.Nil); err != nil {
			return nil, err
		}
	}

	for _, u := range doc.Users {
		// unapproved users cannot be assigned entries
		if u.Approved != nil && !*u.Approved {
			continue
		}
		t.users = append(t.users, models.User{ID: u.ID, Key: u.Key, Name: u.Name, Email: u.Email})
	}

	return t, nil
}

func (t *Tree) add(n nodeDoc, parent uuid.UUID) error {
	if n.Key == uuid.Nil {
		return fmt.Errorf("content node %q has no key", n.Name)
	}
	if _, dup := t.nodes[n.Key]; dup {
		return fmt.Errorf("duplicate content node key %s", n.Key)
	}

	t.nodes[n.Key] = &Node{
		ID:          n.ID,
		Key:         n.Key,
		Name:        n.Name,
		ContentType: n.ContentType,
		Domains:     n.Domains,
		Ratings:     n.Ratings,
		Statuses:    n.Statuses,
	}
	if parent != uuid.Nil {
		t.parents[n.Key] = parent
	}

	for _, c := range n.Children {
		if err := t.add(c, n.Key); err != nil {
			return err
		}
	}
	return nil
}

// Settings returns the feedback section of the document.
func (t *Tree) Settings() FeedbackSettings { return t.settings }

func (t *Tree) GetNodeByKey(_ context.Context, key uuid.UUID) (*Node, error) {
	n, ok := t.nodes[key]
	if !ok {
		return nil, common.ErrPageNotFound
	}
	c := *n
	return &c, nil
}

func (t *Tree) GetAncestors(_ context.Context, node *Node) ([]Node, error) {
	if node == nil {
		return nil, nil
	}
	n, ok := t.nodes[node.Key]
	if !ok {
		return nil, common.ErrPageNotFound
	}

	result := []Node{*n}
	key := n.Key
	for {
		parent, ok := t.parents[key]
		if !ok {
			break
		}
		result = append(result, *t.nodes[parent])
		key = parent
	}
	return result, nil
}

func (t *Tree) ListUsers(_ context.Context) ([]models.User, error) {
	users := make([]models.User, len(t.users))
	copy(users, t.users)
	return users, nil
}

// Localize looks up area/alias for culture, falling back from "da-DK" to "da".
func (t *Tree) Localize(area, alias, culture string) (string, bool) {
	cultures, ok := t.dictionary[area][alias]
	if !ok {
		return "", false
	}
	if s, ok := cultures[culture]; ok {
		return s, true
	}
	if i := strings.IndexByte(culture, '-'); i > 0 {
		if s, ok := cultures[culture[:i]]; ok {
			return s, true
		}
	}
	return "", false
}
