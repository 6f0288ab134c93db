package grpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophfeedback/internal/common"
	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func reply(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// site looks up the site of a public request.
func (s *GRPCServer) site(ctx context.Context, key uuid.UUID) (*models.Site, error) {
	site, err := s.entries.SiteByKey(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, status.Error(codes.NotFound, "A site with the specified key could not be found.")
	}
	return site, err
}

// page checks that a public request names an existing page.
func (s *GRPCServer) page(ctx context.Context, key uuid.UUID) error {
	_, err := s.content.GetNodeByKey(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return status.Error(codes.NotFound, "A page with the specified key could not be found.")
	}
	return err
}

// rating accepts either a rating alias or a rating key.
func rating(site *models.Site, value string) (models.Rating, error) {
	if r, ok := site.RatingByAlias(value); ok {
		return r, nil
	}
	if k, err := uuid.Parse(value); err == nil {
		if r, ok := site.Rating(k); ok {
			return r, nil
		}
	}
	return models.Rating{}, status.Error(codes.InvalidArgument, "A rating with the specified name does not exist.")
}

// AddEntry submits a rating with an optional name, email and comment.
func (s *GRPCServer) AddEntry(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	siteKey, err := req.key("siteKey")
	if err != nil {
		return nil, err
	}
	pageKey, err := req.key("pageKey")
	if err != nil {
		return nil, err
	}

	site, err := s.site(ctx, siteKey)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if err := s.page(ctx, pageKey); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	r, err := rating(site, req.string("rating"))
	if err != nil {
		return nil, err
	}

	result, err := s.entries.Submit(ctx, site, pageKey, r, req.string("name"), req.string("email"), req.string("comment"))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if !result.OK() {
		return nil, resultStatus(result)
	}

	return reply(map[string]any{"key": result.Entry.Key.String(), "statusCode": result.StatusCode})
}

// UpdateEntry replaces the name, email and comment of an existing entry.
func (s *GRPCServer) UpdateEntry(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	key, err := req.key("key")
	if err != nil {
		return nil, err
	}
	siteKey, err := req.key("siteKey")
	if err != nil {
		return nil, err
	}
	pageKey, err := req.key("pageKey")
	if err != nil {
		return nil, err
	}

	if _, err := s.site(ctx, siteKey); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if err := s.page(ctx, pageKey); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resolved, err := s.entries.GetEntryByKey(ctx, key)
	if errors.Is(err, common.ErrEntryNotFound) {
		return nil, status.Error(codes.NotFound, "An entry with the specified key could not be found.")
	}
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	entry := resolved.Entry
	name, email, comment := req.string("name"), req.string("email"), req.string("comment")
	entry.Name, entry.Email, entry.Comment = &name, &email, &comment

	result, err := s.entries.Update(ctx, entry)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if !result.OK() {
		return nil, resultStatus(result)
	}

	return reply(map[string]any{"key": result.Entry.Key.String(), "statusCode": result.StatusCode})
}

// listOptions reads paging, sorting and filters shared by both listings.
func (s *GRPCServer) listOptions(ctx context.Context, req request, site *models.Site) (models.GetEntriesOptions, error) {
	opts := models.GetEntriesOptions{
		Page:      req.int("page", 1),
		PerPage:   req.int("perPage", 0),
		SortField: models.ParseSortField(req.string("sort")),
		SortOrder: models.ParseSortOrder(req.string("order")),
		Type:      models.ParseEntryType(req.string("type")),
		Status:    req.optionalKey("status"),
		Archived:  req.bool("archived"),
	}

	if v := req.string("rating"); v != "" {
		if r, ok := site.RatingByAlias(v); ok {
			opts.Rating = &r.Key
		} else {
			opts.Rating = req.optionalKey("rating")
		}
	}

	if req.has("responsible") {
		if id := req.int("responsible", 0); id > 0 {
			u, err := s.entries.UserByID(ctx, id)
			if err != nil {
				return opts, err
			}
			opts.AssignedTo = &u.Key
		} else {
			opts.AssignedTo = req.optionalKey("responsible")
		}
	}

	return opts, nil
}

func (s *GRPCServer) listing(ctx context.Context, req request, site *models.Site, list func(models.GetEntriesOptions) (*models.EntryList, error)) (*structpb.Struct, error) {
	opts, err := s.listOptions(ctx, req, site)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	result, err := list(opts)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	v := s.newView(req.string("culture"))
	return reply(map[string]any{
		"site":    v.site(site),
		"entries": v.entries(ctx, result),
	})
}

// GetEntriesForSite lists the entries of one site.
func (s *GRPCServer) GetEntriesForSite(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	key, err := req.key("key")
	if err != nil {
		return nil, err
	}

	site, err := s.entries.SiteByKey(ctx, key)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return s.listing(ctx, req, site, func(opts models.GetEntriesOptions) (*models.EntryList, error) {
		return s.entries.GetEntriesForSite(ctx, key, opts)
	})
}

// GetEntriesForPage lists the entries of one page.
func (s *GRPCServer) GetEntriesForPage(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	key, err := req.key("key")
	if err != nil {
		return nil, err
	}

	node, err := s.content.GetNodeByKey(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, status.Error(codes.NotFound, "Page not found.")
		}
		return nil, s.toStatus(ctx, err)
	}
	if !s.sites.IsPage(node) {
		return nil, status.Errorf(codes.InvalidArgument, "content type %q is not a page", node.ContentType)
	}

	site, err := s.entries.SiteByPage(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, status.Error(codes.NotFound, "Site not found.")
		}
		return nil, s.toStatus(ctx, err)
	}

	return s.listing(ctx, req, site, func(opts models.GetEntriesOptions) (*models.EntryList, error) {
		return s.entries.GetEntriesForPage(ctx, key, opts)
	})
}

// GetUsers lists the users entries can be assigned to.
func (s *GRPCServer) GetUsers(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	users := s.entries.Users(ctx)

	data := make([]any, 0, len(users))
	for i := range users {
		data = append(data, user(&users[i]))
	}

	return reply(map[string]any{"users": data})
}

// entryReply renders the current state of the entry with key.
func (s *GRPCServer) entryReply(ctx context.Context, req request, key uuid.UUID, extra map[string]any) (*structpb.Struct, error) {
	resolved, err := s.entries.GetEntryByKey(ctx, key)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	fields := s.newView(req.string("culture")).entry(ctx, resolved)
	for k, v := range extra {
		fields[k] = v
	}
	return reply(fields)
}

// SetStatus moves an entry to another status of its site.
func (s *GRPCServer) SetStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	entryKey, err := req.key("entry")
	if err != nil {
		return nil, err
	}
	statusKey, err := req.key("status")
	if err != nil {
		return nil, err
	}

	resolved, err := s.entries.GetEntryByKey(ctx, entryKey)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if resolved.Site == nil {
		return nil, s.toStatus(ctx, fmt.Errorf("site %s of entry %s: %w", resolved.SiteKey, entryKey, common.ErrorInternal))
	}
	st, ok := resolved.Site.Status(statusKey)
	if !ok {
		return nil, s.toStatus(ctx, fmt.Errorf("%w: %s", common.ErrStatusNotFound, statusKey))
	}

	changed, err := s.entries.SetStatus(ctx, entryKey, st)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return s.entryReply(ctx, req, entryKey, map[string]any{"changed": changed})
}

// SetResponsible assigns an entry to a user, or unassigns it when
// responsible is empty.
func (s *GRPCServer) SetResponsible(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	entryKey, err := req.key("entry")
	if err != nil {
		return nil, err
	}

	var u *models.User
	if req.string("responsible") != "" {
		userKey, err := req.key("responsible")
		if err != nil {
			return nil, err
		}
		if u, err = s.entries.UserByKey(ctx, userKey); err != nil {
			return nil, s.toStatus(ctx, err)
		}
	}

	changed, err := s.entries.SetAssignedTo(ctx, entryKey, u)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return s.entryReply(ctx, req, entryKey, map[string]any{"changed": changed})
}

// Archive flags an entry as archived and returns it.
func (s *GRPCServer) Archive(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	key, err := req.key("key")
	if err != nil {
		return nil, err
	}

	if err := s.entries.Archive(ctx, key); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return s.entryReply(ctx, req, key, nil)
}

// Delete removes an entry and returns its last state.
func (s *GRPCServer) Delete(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)

	key, err := req.key("key")
	if err != nil {
		return nil, err
	}

	resolved, err := s.entries.GetEntryByKey(ctx, key)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if err := s.entries.Delete(ctx, key); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return reply(s.newView(req.string("culture")).entry(ctx, resolved))
}

func (s *GRPCServer) Ping(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return reply(map[string]any{"status": "OK"})
}
