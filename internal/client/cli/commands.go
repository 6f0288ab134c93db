package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
)

func str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func obj(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func list(m map[string]any, key string) []any {
	v, _ := m[key].([]any)
	return v
}

// name reads the display name of a nested reference, or "-" when absent.
func name(m map[string]any, key string) string {
	if s := str(obj(m, key), "name"); s != "" {
		return s
	}
	return "-"
}

func short(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (a *App) Ping(ctx context.Context, _ []string) error {
	out, err := a.call(ctx, "Ping", nil)
	if err != nil {
		a.setMode(ModeOffline)
		return err
	}
	a.setMode(ModeOnline)
	fmt.Fprintln(a.out, str(out, "status"))
	return nil
}

func (a *App) Users(ctx context.Context, _ []string) error {
	out, err := a.call(ctx, "GetUsers", nil)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKEY\tNAME\tEMAIL")
	for _, item := range list(out, "users") {
		u, _ := item.(map[string]any)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", str(u, "id"), str(u, "key"), str(u, "name"), str(u, "email"))
	}
	return tw.Flush()
}

func (a *App) listing(ctx context.Context, method string, args []string, u string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage(u)
	}
	fields := map[string]any{"key": args[0]}
	if len(args) == 2 {
		page, err := strconv.Atoi(args[1])
		if err != nil || page < 1 {
			return usage(u)
		}
		fields["page"] = page
	}

	out, err := a.call(ctx, method, fields)
	if err != nil {
		return err
	}

	site := obj(out, "site")
	entries := obj(out, "entries")
	p := obj(entries, "pagination")
	fmt.Fprintf(a.out, "%s: page %s of %s (%s entries)\n", str(site, "name"), str(p, "page"), str(p, "pages"), str(p, "total"))

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tCREATED\tRATING\tSTATUS\tASSIGNED\tNAME\tCOMMENT")
	for _, item := range list(entries, "data") {
		e, _ := item.(map[string]any)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			str(e, "key"), str(e, "createDate"), name(e, "rating"), name(e, "status"),
			name(e, "assignedTo"), str(e, "name"), short(str(e, "comment"), 40))
	}
	return tw.Flush()
}

func (a *App) Site(ctx context.Context, args []string) error {
	return a.listing(ctx, "GetEntriesForSite", args, "site <siteKey> [page]")
}

func (a *App) Page(ctx context.Context, args []string) error {
	return a.listing(ctx, "GetEntriesForPage", args, "page <pageKey> [page]")
}

// Add submits an entry and prompts for the optional fields.
func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return usage("add <siteKey> <pageKey> <rating>")
	}

	author, err := GetSimpleText(a.reader, "Name (optional)", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email (optional)", a.out)
	if err != nil {
		return err
	}
	comment, err := GetMultiline(a.reader, "Comment (optional)", a.out)
	if err != nil {
		return err
	}

	out, err := a.call(ctx, "AddEntry", map[string]any{
		"siteKey": args[0],
		"pageKey": args[1],
		"rating":  args[2],
		"name":    author,
		"email":   email,
		"comment": comment,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Added entry %s (%s)\n", str(out, "key"), str(out, "statusCode"))
	return nil
}

func (a *App) printEntry(e map[string]any) {
	fmt.Fprintf(a.out, "%s  status=%s  assigned=%s  archived=%s\n",
		str(e, "key"), name(e, "status"), name(e, "assignedTo"), str(e, "archived"))
}

func (a *App) changed(out map[string]any) {
	if changed, _ := out["changed"].(bool); !changed {
		fmt.Fprintln(a.out, "Cancelled")
		return
	}
	a.printEntry(out)
}

func (a *App) Status(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("status <entryKey> <statusKey>")
	}
	out, err := a.call(ctx, "SetStatus", map[string]any{"entry": args[0], "status": args[1]})
	if err != nil {
		return err
	}
	a.changed(out)
	return nil
}

func (a *App) Assign(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("assign <entryKey> [userKey]")
	}
	fields := map[string]any{"entry": args[0], "responsible": ""}
	if len(args) == 2 {
		fields["responsible"] = args[1]
	}
	out, err := a.call(ctx, "SetResponsible", fields)
	if err != nil {
		return err
	}
	a.changed(out)
	return nil
}

func (a *App) Archive(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("archive <entryKey>")
	}
	out, err := a.call(ctx, "Archive", map[string]any{"key": args[0]})
	if err != nil {
		return err
	}
	a.printEntry(out)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("delete <entryKey>")
	}
	out, err := a.call(ctx, "Delete", map[string]any{"key": args[0]})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted entry %s\n", str(out, "key"))
	return nil
}
