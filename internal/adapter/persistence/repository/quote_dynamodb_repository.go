package repository

import (
	"context"
	"errors"
	"time"

	"sterling_partners/internal/domain/entities"
	"sterling_partners/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	pkgerrors "github.com/pkg/errors"
)

const defaultQuotesTableName = "quotes"

type quoteItem struct {
	ID                string            `dynamodbav:"id"`
	EntityType        string            `dynamodbav:"entity_type"`
	InvoiceVolumeBand string            `dynamodbav:"invoice_volume_band"`
	HasStaff          bool              `dynamodbav:"has_staff"`
	StaffCount        int               `dynamodbav:"staff_count"`
	AddOns            []string          `dynamodbav:"add_ons"`
	Result            pricingResultItem `dynamodbav:"result"`
	Status            string            `dynamodbav:"status"`
	CreatedAt         string            `dynamodbav:"created_at"`
	UpdatedAt         string            `dynamodbav:"updated_at"`
}

type pricingResultItem struct {
	BasePrice         int     `dynamodbav:"base_price"`
	InvoiceExtra      int     `dynamodbav:"invoice_extra"`
	StaffExtra        int     `dynamodbav:"staff_extra"`
	AnnualReportExtra int     `dynamodbav:"annual_report_extra"`
	PayrollExtra      int     `dynamodbav:"payroll_extra"`
	TaxAdviceExtra    int     `dynamodbav:"tax_advice_extra"`
	Total             int     `dynamodbav:"total"`
	MarketMultiplier  float64 `dynamodbav:"market_multiplier"`
	MarketAverage     int     `dynamodbav:"market_average"`
	MonthlySavings    int     `dynamodbav:"monthly_savings"`
	AnnualSavings     int     `dynamodbav:"annual_savings"`
	RecommendedPlan   string  `dynamodbav:"recommended_plan"`
}

// QuoteDynamoRepository persists Quote entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)

type QuoteDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
	now       func() time.Time
}

var _ interfaces.IQuoteRepository = (*QuoteDynamoRepository)(nil)

func NewQuoteDynamoRepository(ddb DynamoAPI) *QuoteDynamoRepository {
	return &QuoteDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("QUOTES_TABLE", defaultQuotesTableName),
		now:       time.Now,
	}
}

func (r *QuoteDynamoRepository) Create(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	av, err := attributevalue.MarshalMap(toQuoteItem(q))
	if err != nil {
		return entities.Quote{}, pkgerrors.Wrap(err, "marshal quote")
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Quote{}, pkgerrors.Wrapf(err, "put quote %s", q.ID)
	}
	return q, nil
}

func (r *QuoteDynamoRepository) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Quote{}, pkgerrors.Wrapf(err, "get quote %s", id)
	}
	if len(out.Item) == 0 {
		return entities.Quote{}, nil
	}

	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Quote{}, pkgerrors.Wrap(err, "unmarshal quote")
	}
	return fromQuoteItem(it), nil
}

// UpdateStatusByID returns a zero Quote when the id does not exist.
func (r *QuoteDynamoRepository) UpdateStatusByID(ctx context.Context, id string, status entities.QuoteStatus) (entities.Quote, error) {
	now := formatTime(r.now())

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("SET #status = :status, #updated_at = :updated_at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: string(status)},
			":updated_at": &types.AttributeValueMemberS{Value: now},
		},
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#status":     "status",
			"#updated_at": "updated_at",
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Quote{}, nil
		}
		return entities.Quote{}, pkgerrors.Wrapf(err, "update quote %s", id)
	}
	if len(out.Attributes) == 0 {
		return entities.Quote{}, nil
	}

	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Quote{}, pkgerrors.Wrap(err, "unmarshal quote")
	}
	return fromQuoteItem(it), nil
}

func toQuoteItem(q entities.Quote) quoteItem {
	addOns := make([]string, len(q.Selection.AddOns))
	for i, a := range q.Selection.AddOns {
		addOns[i] = string(a)
	}
	res := q.Result
	return quoteItem{
		ID:                q.ID,
		EntityType:        string(q.Selection.EntityType),
		InvoiceVolumeBand: string(q.Selection.InvoiceVolumeBand),
		HasStaff:          q.Selection.HasStaff,
		StaffCount:        q.Selection.StaffCount,
		AddOns:            addOns,
		Result: pricingResultItem{
			BasePrice:         res.BasePrice,
			InvoiceExtra:      res.InvoiceExtra,
			StaffExtra:        res.StaffExtra,
			AnnualReportExtra: res.AnnualReportExtra,
			PayrollExtra:      res.PayrollExtra,
			TaxAdviceExtra:    res.TaxAdviceExtra,
			Total:             res.Total,
			MarketMultiplier:  res.MarketMultiplier,
			MarketAverage:     res.MarketAverage,
			MonthlySavings:    res.MonthlySavings,
			AnnualSavings:     res.AnnualSavings,
			RecommendedPlan:   string(res.RecommendedPlan),
		},
		Status:    string(q.Status),
		CreatedAt: formatTime(q.CreatedAt),
		UpdatedAt: formatTime(q.UpdatedAt),
	}
}

func fromQuoteItem(it quoteItem) entities.Quote {
	addOns := make([]entities.AddOn, len(it.AddOns))
	for i, a := range it.AddOns {
		addOns[i] = entities.AddOn(a)
	}
	res := it.Result
	return entities.Quote{
		ID: it.ID,
		Selection: entities.PricingSelection{
			EntityType:        entities.EntityType(it.EntityType),
			InvoiceVolumeBand: entities.InvoiceVolumeBand(it.InvoiceVolumeBand),
			HasStaff:          it.HasStaff,
			StaffCount:        it.StaffCount,
			AddOns:            addOns,
		},
		Result: entities.PricingResult{
			BasePrice:         res.BasePrice,
			InvoiceExtra:      res.InvoiceExtra,
			StaffExtra:        res.StaffExtra,
			AnnualReportExtra: res.AnnualReportExtra,
			PayrollExtra:      res.PayrollExtra,
			TaxAdviceExtra:    res.TaxAdviceExtra,
			Total:             res.Total,
			MarketMultiplier:  res.MarketMultiplier,
			MarketAverage:     res.MarketAverage,
			MonthlySavings:    res.MonthlySavings,
			AnnualSavings:     res.AnnualSavings,
			RecommendedPlan:   entities.Plan(res.RecommendedPlan),
		},
		Status:    entities.QuoteStatus(it.Status),
		CreatedAt: parseTime(it.CreatedAt),
		UpdatedAt: parseTime(it.UpdatedAt),
	}
}
