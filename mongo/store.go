package mongo

import (
	"context"
	stderrors "errors"
	"net"
	"strconv"

	"go.mongodb.org/mongo-driver/v2/bson"
	drv "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/kbukum/jobreturn/errors"
)

// Document is a stored document as returned by the read helpers.
type Document = map[string]any

// Store is one open connection to the results database.
type Store interface {
	// Insert adds doc to collection.
	Insert(ctx context.Context, collection string, doc any) error
	// First returns any document of collection.
	First(ctx context.Context, collection string) (Document, bool, error)
	// FindWithKey returns a document of collection that has a field named key.
	FindWithKey(ctx context.Context, collection, key string) (Document, bool, error)
	// Latest returns the newest document of collection whose field equals value.
	Latest(ctx context.Context, collection, field string, value any) (Document, bool, error)
	// CollectionNames lists the collections of the database.
	CollectionNames(ctx context.Context) ([]string, error)
	// Close disconnects.
	Close(ctx context.Context) error
}

// Dialer opens a Store for the given settings.
type Dialer func(ctx context.Context, s Settings) (Store, error)

type driverStore struct {
	client *drv.Client
	db     *drv.Database
}

var _ Store = (*driverStore)(nil)

// Dial connects to the server named by s and authenticates against s.DB
// when credentials are set. The connection is verified with a ping.
func Dial(ctx context.Context, s Settings) (Store, error) {
	opts := options.Client().
		SetHosts([]string{net.JoinHostPort(s.Host, strconv.Itoa(s.Port))}).
		SetConnectTimeout(s.Timeout).
		SetServerSelectionTimeout(s.Timeout)
	if s.HasAuth() {
		opts.SetAuth(options.Credential{
			Username:   s.Username,
			Password:   s.Password,
			AuthSource: s.DB,
		})
	}

	client, err := drv.Connect(opts)
	if err != nil {
		return nil, errors.DatabaseError(err).WithDetail("operation", "connect")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, errors.DatabaseError(err).WithDetail("operation", "connect")
	}
	return &driverStore{client: client, db: client.Database(s.DB)}, nil
}

func (d *driverStore) Insert(ctx context.Context, collection string, doc any) error {
	if _, err := d.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return errors.DatabaseError(err).WithDetail("operation", "insert")
	}
	return nil
}

func (d *driverStore) First(ctx context.Context, collection string) (Document, bool, error) {
	return d.findOne(ctx, collection, bson.D{})
}

func (d *driverStore) FindWithKey(ctx context.Context, collection, key string) (Document, bool, error) {
	return d.findOne(ctx, collection, bson.D{{Key: key, Value: bson.D{{Key: "$exists", Value: true}}}})
}

func (d *driverStore) Latest(ctx context.Context, collection, field string, value any) (Document, bool, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	return d.findOne(ctx, collection, bson.D{{Key: field, Value: value}}, opts)
}

func (d *driverStore) findOne(ctx context.Context, collection string, filter any, opts ...options.Lister[options.FindOneOptions]) (Document, bool, error) {
	var doc bson.M
	err := d.db.Collection(collection).FindOne(ctx, filter, opts...).Decode(&doc)
	switch {
	case stderrors.Is(err, drv.ErrNoDocuments):
		return nil, false, nil
	case err != nil:
		return nil, false, errors.DatabaseError(err).WithDetail("operation", "find")
	}
	return Document(doc), true, nil
}

func (d *driverStore) CollectionNames(ctx context.Context) ([]string, error) {
	names, err := d.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, errors.DatabaseError(err).WithDetail("operation", "list_collections")
	}
	return names, nil
}

func (d *driverStore) Close(ctx context.Context) error {
	if err := d.client.Disconnect(ctx); err != nil {
		return errors.DatabaseError(err).WithDetail("operation", "disconnect")
	}
	return nil
}
