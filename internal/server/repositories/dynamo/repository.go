package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dmitrijs2005/gophfeedback/internal/common"
	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/dmitrijs2005/gophfeedback/internal/server/repositories/entries"
	"github.com/google/uuid"
)

const (
	attrKey        = "entry_key"
	attrID         = "id"
	attrSiteKey    = "site_key"
	attrPageKey    = "page_key"
	attrComment    = "comment"
	attrRating     = "rating"
	attrStatus     = "status"
	attrAssignedTo = "assigned_to"
	attrArchived   = "archived"
)

// item is the stored shape of an entry.
type item struct {
	Key        string  `dynamodbav:"entry_key"`
	ID         int64   `dynamodbav:"id"`
	SiteKey    string  `dynamodbav:"site_key"`
	PageKey    string  `dynamodbav:"page_key"`
	Name       *string `dynamodbav:"name,omitempty"`
	Email      *string `dynamodbav:"email,omitempty"`
	Comment    *string `dynamodbav:"comment,omitempty"`
	Rating     string  `dynamodbav:"rating"`
	Status     string  `dynamodbav:"status"`
	CreateDate string  `dynamodbav:"create_date"`
	UpdateDate string  `dynamodbav:"update_date"`
	AssignedTo string  `dynamodbav:"assigned_to,omitempty"`
	Archived   bool    `dynamodbav:"archived"`
}

func toItem(e *models.Entry) item {
	it := item{
		Key:        e.Key.String(),
		ID:         e.ID,
		SiteKey:    e.SiteKey.String(),
		PageKey:    e.PageKey.String(),
		Name:       e.Name,
		Email:      e.Email,
		Comment:    e.Comment,
		Rating:     e.Rating.String(),
		Status:     e.Status.String(),
		CreateDate: e.CreateDate.UTC().Format(time.RFC3339Nano),
		UpdateDate: e.UpdateDate.UTC().Format(time.RFC3339Nano),
		Archived:   e.Archived,
	}
	if e.AssignedTo.Valid {
		it.AssignedTo = e.AssignedTo.UUID.String()
	}
	return it
}

func (it item) entry() (*models.Entry, error) {
	var (
		e   = models.Entry{ID: it.ID, Name: it.Name, Email: it.Email, Comment: it.Comment, Archived: it.Archived}
		err error
	)
	parse := func(dst *uuid.UUID, s string) {
		if err == nil {
			*dst, err = uuid.Parse(s)
		}
	}
	parse(&e.Key, it.Key)
	parse(&e.SiteKey, it.SiteKey)
	parse(&e.PageKey, it.PageKey)
	parse(&e.Rating, it.Rating)
	parse(&e.Status, it.Status)
	if it.AssignedTo != "" {
		parse(&e.AssignedTo.UUID, it.AssignedTo)
		e.AssignedTo.Valid = true
	}
	if err != nil {
		return nil, fmt.Errorf("decode entry %s: %w", it.Key, err)
	}

	if e.CreateDate, err = time.Parse(time.RFC3339Nano, it.CreateDate); err != nil {
		return nil, fmt.Errorf("decode entry %s: %w", it.Key, err)
	}
	if e.UpdateDate, err = time.Parse(time.RFC3339Nano, it.UpdateDate); err != nil {
		return nil, fmt.Errorf("decode entry %s: %w", it.Key, err)
	}
	e.CreateDate = e.CreateDate.UTC()
	e.UpdateDate = e.UpdateDate.UTC()
	return &e, nil
}

// Repository implements entries.Repository on a single DynamoDB table.
// Queries scan the table with a filter expression and sort and paginate
// the matches in memory.
type Repository struct {
	client API
	table  string
	now    func() time.Time

	mu     sync.Mutex
	lastID int64
}

var _ entries.Repository = (*Repository)(nil)

func NewRepository(client API, table string) *Repository {
	return &Repository{client: client, table: table, now: time.Now}
}

// nextID hands out increasing ids derived from the clock so that ids keep
// insertion order across restarts.
func (r *Repository) nextID() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.now().UnixNano()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}

func keyOf(key uuid.UUID) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{attrKey: &types.AttributeValueMemberS{Value: key.String()}}
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

func (r *Repository) put(ctx context.Context, e *models.Entry, cond expression.ConditionBuilder) error {
	av, err := attributevalue.MarshalMap(toItem(e))
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("build condition: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.table),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	return err
}

// Insert stores a new entry and assigns its ID. Keys must be unique.
func (r *Repository) Insert(ctx context.Context, e *models.Entry) error {
	id := r.nextID()
	stored := *e
	stored.ID = id

	err := r.put(ctx, &stored, expression.AttributeNotExists(expression.Name(attrKey)))
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("insert entry: duplicate key %s", e.Key)
		}
		return fmt.Errorf("insert entry: %w", err)
	}
	e.ID = id
	return nil
}

// Update replaces an existing entry. The stored ID is kept whatever e.ID
// holds, and e.ID is set to it on success.
func (r *Repository) Update(ctx context.Context, e *models.Entry) error {
	current, err := r.GetByKey(ctx, e.Key)
	if err != nil {
		return err
	}

	stored := *e
	stored.ID = current.ID
	cond := expression.AttributeExists(expression.Name(attrKey)).
		And(expression.Name(attrID).Equal(expression.Value(current.ID)))

	if err := r.put(ctx, &stored, cond); err != nil {
		if isConditionFailed(err) {
			return common.ErrEntryNotFound
		}
		return fmt.Errorf("update entry: %w", err)
	}
	e.ID = current.ID
	return nil
}

func (r *Repository) Delete(ctx context.Context, key uuid.UUID) error {
	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name(attrKey))).
		Build()
	if err != nil {
		return fmt.Errorf("build condition: %w", err)
	}
	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.table),
		Key:                      keyOf(key),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return common.ErrEntryNotFound
		}
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func (r *Repository) GetByKey(ctx context.Context, key uuid.UUID) (*models.Entry, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            keyOf(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, common.ErrEntryNotFound
	}

	var it item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal entry: %w", err)
	}
	return it.entry()
}

// filter turns opts into a scan filter. ok is false when nothing is filtered.
func filter(opts models.GetEntriesOptions) (cond expression.ConditionBuilder, ok bool) {
	var conds []expression.ConditionBuilder
	eq := func(attr string, key *uuid.UUID) {
		if key != nil {
			conds = append(conds, expression.Name(attr).Equal(expression.Value(key.String())))
		}
	}
	eq(attrSiteKey, opts.SiteKey)
	eq(attrPageKey, opts.PageKey)
	eq(attrRating, opts.Rating)
	eq(attrStatus, opts.Status)
	eq(attrAssignedTo, opts.AssignedTo)
	if opts.Archived != nil {
		conds = append(conds, expression.Name(attrArchived).Equal(expression.Value(*opts.Archived)))
	}
	switch opts.Type {
	case models.EntryTypeComment:
		conds = append(conds, expression.AttributeExists(expression.Name(attrComment)))
	case models.EntryTypeRating:
		conds = append(conds, expression.AttributeNotExists(expression.Name(attrComment)))
	}

	if len(conds) == 0 {
		return cond, false
	}
	cond = conds[0]
	for _, c := range conds[1:] {
		cond = cond.And(c)
	}
	return cond, true
}

func (r *Repository) scanInput(opts models.GetEntriesOptions) (*dynamodb.ScanInput, error) {
	in := &dynamodb.ScanInput{TableName: aws.String(r.table), ConsistentRead: aws.Bool(true)}
	cond, ok := filter(opts)
	if !ok {
		return in, nil
	}
	expr, err := expression.NewBuilder().WithFilter(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("build filter: %w", err)
	}
	in.FilterExpression = expr.Filter()
	in.ExpressionAttributeNames = expr.Names()
	in.ExpressionAttributeValues = expr.Values()
	return in, nil
}

// Query scans every matching entry, then sorts and slices the requested page.
func (r *Repository) Query(ctx context.Context, opts models.GetEntriesOptions) ([]*models.Entry, int, error) {
	opts = opts.Normalize(models.DefaultPerPage)

	in, err := r.scanInput(opts)
	if err != nil {
		return nil, 0, err
	}

	var matched []*models.Entry
	p := dynamodb.NewScanPaginator(r.client, in)
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("scan entries: %w", err)
		}
		var items []item
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, 0, fmt.Errorf("unmarshal entries: %w", err)
		}
		for _, it := range items {
			e, err := it.entry()
			if err != nil {
				return nil, 0, err
			}
			matched = append(matched, e)
		}
	}

	page, total := entries.SortAndPage(matched, opts)
	return page, total, nil
}
