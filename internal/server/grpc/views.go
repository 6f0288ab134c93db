package grpc

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/google/uuid"
)

const (
	localizationArea = "feedback"
	defaultCulture   = "en-US"
)

// view renders domain values as Struct-compatible maps for one request.
type view struct {
	s       *GRPCServer
	culture string
	pages   map[uuid.UUID]any
}

func (s *GRPCServer) newView(culture string) *view {
	if culture == "" {
		culture = defaultCulture
	}
	return &view{s: s, culture: culture, pages: make(map[uuid.UUID]any)}
}

// pascalCase turns "in-progress" or "inProgress" into "InProgress".
func pascalCase(alias string) string {
	var b strings.Builder
	upper := true
	for _, r := range alias {
		if r == '-' || r == '_' || unicode.IsSpace(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// name returns configured when set, otherwise the dictionary text for
// prefix+alias, otherwise the alias itself.
func (v *view) name(prefix, alias, configured string) string {
	if strings.TrimSpace(configured) != "" {
		return configured
	}
	if v.s.localizer != nil {
		if s, ok := v.s.localizer.Localize(localizationArea, prefix+pascalCase(alias), v.culture); ok {
			return s
		}
	}
	return alias
}

func (v *view) rating(r models.Rating) map[string]any {
	return map[string]any{
		"key":    r.Key.String(),
		"alias":  r.Alias,
		"name":   v.name("rating", r.Alias, r.Name),
		"active": r.Active,
	}
}

func (v *view) status(st models.Status) map[string]any {
	return map[string]any{
		"key":    st.Key.String(),
		"alias":  st.Alias,
		"name":   v.name("status", st.Alias, st.Name),
		"active": st.Active,
	}
}

func (v *view) ratingRef(r models.RatingRef) map[string]any {
	if value, ok := r.Get(); ok {
		return v.rating(value)
	}
	return v.rating(models.Rating{Key: r.Key(), Alias: models.NotFoundAlias})
}

func (v *view) statusRef(r models.StatusRef) map[string]any {
	if value, ok := r.Get(); ok {
		return v.status(value)
	}
	return v.status(models.Status{Key: r.Key(), Alias: models.NotFoundAlias})
}

func (v *view) site(site *models.Site) any {
	if site == nil {
		return nil
	}
	ratings := make([]any, 0, len(site.Ratings))
	for _, r := range site.Ratings {
		ratings = append(ratings, v.rating(r))
	}
	statuses := make([]any, 0, len(site.Statuses))
	for _, st := range site.Statuses {
		statuses = append(statuses, v.status(st))
	}
	return map[string]any{
		"id":       site.ID,
		"key":      site.Key.String(),
		"name":     site.Name,
		"ratings":  ratings,
		"statuses": statuses,
	}
}

// page looks the page up in the content tree once per request.
func (v *view) page(ctx context.Context, key uuid.UUID) any {
	if p, ok := v.pages[key]; ok {
		return p
	}
	var p any
	if node, err := v.s.content.GetNodeByKey(ctx, key); err == nil {
		p = map[string]any{
			"id":   node.ID,
			"key":  node.Key.String(),
			"name": node.Name,
		}
	}
	v.pages[key] = p
	return p
}

func user(u *models.User) any {
	if u == nil {
		return nil
	}
	return map[string]any{
		"id":    u.ID,
		"key":   u.Key.String(),
		"name":  u.Name,
		"email": u.Email,
	}
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func (v *view) entry(ctx context.Context, e *models.ResolvedEntry) map[string]any {
	return map[string]any{
		"id":         e.ID,
		"key":        e.Key.String(),
		"site":       v.site(e.Site),
		"page":       v.page(ctx, e.PageKey),
		"pageKey":    e.PageKey.String(),
		"name":       optional(e.Name),
		"email":      optional(e.Email),
		"comment":    optional(e.Comment),
		"type":       string(e.Type()),
		"rating":     v.ratingRef(e.Rating),
		"status":     v.statusRef(e.Status),
		"assignedTo": user(e.AssignedTo),
		"createDate": timestamp(e.CreateDate),
		"updateDate": timestamp(e.UpdateDate),
		"archived":   e.Archived,
	}
}

// entries renders a listing with its pagination and sorting blocks.
func (v *view) entries(ctx context.Context, list *models.EntryList) map[string]any {
	data := make([]any, 0, len(list.Entries))
	for _, e := range list.Entries {
		data = append(data, v.entry(ctx, e))
	}
	return map[string]any{
		"pagination": map[string]any{
			"page":   list.Page,
			"pages":  list.Pages(),
			"limit":  list.PerPage,
			"total":  list.Total,
			"offset": list.Offset(),
		},
		"sorting": map[string]any{
			"field": string(list.SortField),
			"order": string(list.SortOrder),
		},
		"data": data,
	}
}
