package databases

// go generate: mockery --name BaitCarLogDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/indysafe/safety-bot-api/models"
)

const baitCarLogName = "bait_car_logs"

// BaitCarLogDatabase contains the methods to use with the bait car notification log
type BaitCarLogDatabase interface {
	InsertOne(ctx context.Context, log models.BaitCarLog, opts ...*options.InsertOneOptions) error
}

type baitCarLogDatabase struct {
	db DatabaseHelper
}

// NewBaitCarLogDatabase initializes a new instance of bait car log database with the provided db connection
func NewBaitCarLogDatabase(db DatabaseHelper) BaitCarLogDatabase {
	return &baitCarLogDatabase{
		db: db,
	}
}

func (c *baitCarLogDatabase) InsertOne(ctx context.Context, log models.BaitCarLog, opts ...*options.InsertOneOptions) error {
	_, err := c.db.Collection(baitCarLogName).InsertOne(ctx, log, opts...)
	return err
}
