package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/davuth/shopledger/internal/domain/models"
	"github.com/davuth/shopledger/internal/service/ledger"
)

// RunAtomic executes fn inside one MongoDB multi-document transaction.
// Snapshot reads plus majority writes give the all-or-nothing and
// conflict-detection guarantees the posting workflow relies on; the driver
// retries transient conflicts before surfacing an error.
func (r *Repository) RunAtomic(ctx context.Context, fn func(tx ledger.Tx) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(&ledgerTx{ctx: sc, db: r.db})
	}, txnOpts)
	return err
}

// ledgerTx issues every read and write through the session context so the
// whole workflow shares one transaction.
type ledgerTx struct {
	ctx mongo.SessionContext
	db  *mongo.Database
}

func (t *ledgerTx) CounterCount(key string) (int, error) {
	var counter models.Counter
	err := t.db.Collection(collCounters).FindOne(t.ctx, bson.M{"_id": key}).Decode(&counter)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return counter.Count, nil
}

func (t *ledgerTx) SetCounter(key string, count int) error {
	_, err := t.db.Collection(collCounters).UpdateOne(t.ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"count": count}},
		options.Update().SetUpsert(true))
	return err
}

func (t *ledgerTx) Product(id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := t.db.Collection(collProducts).FindOne(t.ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ledger.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (t *ledgerTx) SetProductStock(id primitive.ObjectID, stock int) error {
	_, err := t.db.Collection(collProducts).UpdateByID(t.ctx, id,
		bson.M{"$set": bson.M{"stock": stock}})
	return err
}

func (t *ledgerTx) Client(id primitive.ObjectID) (*models.Client, error) {
	var client models.Client
	err := t.db.Collection(collClients).FindOne(t.ctx, bson.M{"_id": id}).Decode(&client)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ledger.ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (t *ledgerTx) Vendor(id primitive.ObjectID) (*models.Vendor, error) {
	var vendor models.Vendor
	err := t.db.Collection(collVendors).FindOne(t.ctx, bson.M{"_id": id}).Decode(&vendor)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ledger.ErrVendorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (t *ledgerTx) BumpVendorTotals(id primitive.ObjectID, orders int, amount float64) error {
	_, err := t.db.Collection(collVendors).UpdateByID(t.ctx, id,
		bson.M{"$inc": bson.M{"orders": orders, "totalAmount": amount}})
	return err
}

func (t *ledgerTx) Sale(id primitive.ObjectID) (*models.Sale, error) {
	var sale models.Sale
	err := t.db.Collection(collSales).FindOne(t.ctx, bson.M{"_id": id}).Decode(&sale)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (t *ledgerTx) Purchase(id primitive.ObjectID) (*models.Purchase, error) {
	var purchase models.Purchase
	err := t.db.Collection(collPurchases).FindOne(t.ctx, bson.M{"_id": id}).Decode(&purchase)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (t *ledgerTx) Expense(id primitive.ObjectID) (*models.Expense, error) {
	var expense models.Expense
	err := t.db.Collection(collExpenses).FindOne(t.ctx, bson.M{"_id": id}).Decode(&expense)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (t *ledgerTx) InsertSale(s *models.Sale) error {
	s.ID = primitive.NewObjectID()
	_, err := t.db.Collection(collSales).InsertOne(t.ctx, s)
	return err
}

func (t *ledgerTx) InsertPurchase(p *models.Purchase) error {
	p.ID = primitive.NewObjectID()
	_, err := t.db.Collection(collPurchases).InsertOne(t.ctx, p)
	return err
}

func (t *ledgerTx) InsertExpense(e *models.Expense) error {
	e.ID = primitive.NewObjectID()
	_, err := t.db.Collection(collExpenses).InsertOne(t.ctx, e)
	return err
}

func (t *ledgerTx) UpdateSale(s *models.Sale) error {
	return t.replace(collSales, s.ID, s)
}

func (t *ledgerTx) UpdatePurchase(p *models.Purchase) error {
	return t.replace(collPurchases, p.ID, p)
}

func (t *ledgerTx) UpdateExpense(e *models.Expense) error {
	return t.replace(collExpenses, e.ID, e)
}

func (t *ledgerTx) DeleteSale(id primitive.ObjectID) error {
	return t.remove(collSales, id)
}

func (t *ledgerTx) DeletePurchase(id primitive.ObjectID) error {
	return t.remove(collPurchases, id)
}

func (t *ledgerTx) DeleteExpense(id primitive.ObjectID) error {
	return t.remove(collExpenses, id)
}

func (t *ledgerTx) AppendActivity(a models.RecentActivity) error {
	a.ID = primitive.NewObjectID()
	_, err := t.db.Collection(collActivities).InsertOne(t.ctx, a)
	return err
}

func (t *ledgerTx) replace(coll string, id primitive.ObjectID, doc interface{}) error {
	res, err := t.db.Collection(coll).ReplaceOne(t.ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func (t *ledgerTx) remove(coll string, id primitive.ObjectID) error {
	res, err := t.db.Collection(coll).DeleteOne(t.ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
