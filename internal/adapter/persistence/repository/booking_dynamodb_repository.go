package repository

import (
	"context"

	"sterling_partners/internal/domain/entities"
	"sterling_partners/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	pkgerrors "github.com/pkg/errors"
)

const defaultBookingsTableName = "bookings"

type bookingItem struct {
	ID           string `dynamodbav:"id"`
	SessionID    string `dynamodbav:"session_id"`
	QuoteID      string `dynamodbav:"quote_id,omitempty"`
	Package      string `dynamodbav:"package"`
	Date         string `dynamodbav:"date"`
	Time         string `dynamodbav:"time"`
	ContactName  string `dynamodbav:"contact_name"`
	ContactEmail string `dynamodbav:"contact_email"`
	ContactPhone string `dynamodbav:"contact_phone,omitempty"`
	Company      string `dynamodbav:"company,omitempty"`
	Status       string `dynamodbav:"status"`
	CreatedAt    string `dynamodbav:"created_at"`
}

// BookingDynamoRepository persists confirmed bookings in DynamoDB.
//
// Table requirements:
//   - PK: id (string)

type BookingDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IBookingRepository = (*BookingDynamoRepository)(nil)

func NewBookingDynamoRepository(ddb DynamoAPI) *BookingDynamoRepository {
	return &BookingDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("BOOKINGS_TABLE", defaultBookingsTableName),
	}
}

func (r *BookingDynamoRepository) Create(ctx context.Context, b entities.Booking) (entities.Booking, error) {
	av, err := attributevalue.MarshalMap(toBookingItem(b))
	if err != nil {
		return entities.Booking{}, pkgerrors.Wrap(err, "marshal booking")
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
		return entities.Booking{}, pkgerrors.Wrapf(err, "put booking %s", b.ID)
	}
	return b, nil
}

func (r *BookingDynamoRepository) GetByID(ctx context.Context, id string) (entities.Booking, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Booking{}, pkgerrors.Wrapf(err, "get booking %s", id)
	}
	if len(out.Item) == 0 {
		return entities.Booking{}, nil
	}

	var it bookingItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Booking{}, pkgerrors.Wrap(err, "unmarshal booking")
	}
	return fromBookingItem(it), nil
}

func toBookingItem(b entities.Booking) bookingItem {
	return bookingItem{
		ID:           b.ID,
		SessionID:    b.SessionID,
		QuoteID:      b.QuoteID,
		Package:      string(b.Package),
		Date:         b.Date,
		Time:         b.Time,
		ContactName:  b.Contact.Name,
		ContactEmail: b.Contact.Email,
		ContactPhone: b.Contact.Phone,
		Company:      b.Contact.Company,
		Status:       string(b.Status),
		CreatedAt:    formatTime(b.CreatedAt),
	}
}

func fromBookingItem(it bookingItem) entities.Booking {
	return entities.Booking{
		ID:        it.ID,
		SessionID: it.SessionID,
		QuoteID:   it.QuoteID,
		Package:   entities.PackageChoice(it.Package),
		Date:      it.Date,
		Time:      it.Time,
		Contact: entities.Contact{
			Name:    it.ContactName,
			Email:   it.ContactEmail,
			Phone:   it.ContactPhone,
			Company: it.Company,
		},
		Status:    entities.BookingStatus(it.Status),
		CreatedAt: parseTime(it.CreatedAt),
	}
}
