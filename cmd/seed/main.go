// Command seed loads the demo dataset: user accounts, the searchable
// document corpus with its text index, and the application form template in
// object storage.
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/octank-fsi/dialog-agent/internal/accounts"
	"github.com/octank-fsi/dialog-agent/internal/documents"
	pkgmongo "github.com/octank-fsi/dialog-agent/pkg/mongo"
)

type SeedConfig struct {
	Mongo       pkgmongo.Config
	Accounts    accounts.Config
	ObjectStore documents.StoreConfig
	Documents   documents.PipelineConfig

	SearchCollection string `envconfig:"SEARCH_COLLECTION" default:"documents"`
}

var demoAccounts = []accounts.Record{
	{
		UserName:        "jdoe",
		PlanName:        "mortgage",
		PIN:             "1234",
		LoanAmount:      800000,
		LoanInterest:    3.5,
		UnpaidPrincipal: 250000,
		AmountDue:       1000,
		DueDate:         "07/01/2031",
	},
	{
		UserName:        "John Stiles",
		PlanName:        "checking",
		PIN:             "5678",
		UnpaidPrincipal: 12500,
		PaymentAmount:   150,
		DueDate:         "09/15/2026",
	},
	{
		UserName:        "Mary Major",
		PlanName:        "loan",
		PIN:             "4321",
		UnpaidPrincipal: 18000,
		PaymentAmount:   425,
		DueDate:         "10/01/2026",
	},
}

var demoCorpus = []bson.M{
	{
		"title":   "Octank Financial Mortgage Rates",
		"uri":     "https://docs.octank.example/mortgage-rates",
		"excerpt": "Octank Financial offers fixed-rate mortgages with 15 and 30 year terms, plus adjustable-rate options for qualified borrowers.",
		"type":    "DOCUMENT",
	},
	{
		"title":       "What is a down payment?",
		"uri":         "https://docs.octank.example/down-payments",
		"excerpt":     "A down payment is the portion of a home purchase price paid up front rather than financed.",
		"answer_text": "A down payment is the up-front portion of a home purchase price; 20% avoids mortgage insurance.",
		"type":        "ANSWER",
	},
	{
		"title":   "Loan Application Checklist",
		"uri":     "https://docs.octank.example/application-checklist",
		"excerpt": "Applicants should have income documentation, an estimated credit score, current housing expenses, and a target closing date ready.",
		"type":    "DOCUMENT",
	},
}

const formTemplate = `{
  "title": "Octank Financial Mortgage Loan Application",
  "footer": "Octank Financial. Member FDIC.",
  "fields": [
    {"name": "user_name", "label": "Applicant Name", "x": 20, "y": 50},
    {"name": "loan_value", "label": "Requested Loan Amount", "x": 20, "y": 60},
    {"name": "monthly_income", "label": "Monthly Net Income", "x": 20, "y": 70},
    {"name": "credit_score", "label": "Estimated Credit Score", "x": 20, "y": 80},
    {"name": "down_payment", "label": "Down Payment", "x": 20, "y": 90},
    {"name": "plan_name", "label": "Application Type", "x": 20, "y": 100}
  ]
}`

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg SeedConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	db, err := cfg.Mongo.New(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to mongo: %v", err)
	}
	defer db.Client().Disconnect(ctx)

	if err := seedAccounts(ctx, db, cfg.Accounts); err != nil {
		log.Fatalf("Failed to seed accounts: %v", err)
	}
	if err := seedCorpus(ctx, db, cfg.SearchCollection); err != nil {
		log.Fatalf("Failed to seed document corpus: %v", err)
	}
	if err := uploadFormTemplate(ctx, cfg); err != nil {
		log.Fatalf("Failed to upload form template: %v", err)
	}

	log.Println("Demo dataset loaded")
}

func seedAccounts(ctx context.Context, db *mongo.Database, cfg accounts.Config) error {
	coll := db.Collection(cfg.AccountsCollection)
	for _, rec := range demoAccounts {
		filter := bson.M{"user_name": rec.UserName, "plan_name": rec.PlanName}
		if _, err := coll.DeleteMany(ctx, filter); err != nil {
			return err
		}
		if _, err := coll.InsertOne(ctx, rec); err != nil {
			return err
		}
	}
	log.Printf("Seeded %d account records", len(demoAccounts))
	return nil
}

func seedCorpus(ctx context.Context, db *mongo.Database, collection string) error {
	coll := db.Collection(collection)
	if err := coll.Drop(ctx); err != nil {
		return err
	}

	docs := make([]interface{}, 0, len(demoCorpus))
	for _, d := range demoCorpus {
		docs = append(docs, d)
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return err
	}

	index := mongo.IndexModel{Keys: bson.D{
		{Key: "title", Value: "text"},
		{Key: "excerpt", Value: "text"},
		{Key: "answer_text", Value: "text"},
	}}
	if _, err := coll.Indexes().CreateOne(ctx, index); err != nil {
		return err
	}
	log.Printf("Seeded %d corpus documents with text index", len(demoCorpus))
	return nil
}

func uploadFormTemplate(ctx context.Context, cfg SeedConfig) error {
	store, err := documents.NewMinioStore(cfg.ObjectStore)
	if err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", "seed-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "template.json")
	if err := os.WriteFile(path, []byte(formTemplate), 0o644); err != nil {
		return err
	}
	if err := store.Upload(ctx, cfg.Documents.TemplateKey, path); err != nil {
		return err
	}
	log.Printf("Uploaded form template to %q", cfg.Documents.TemplateKey)
	return nil
}
