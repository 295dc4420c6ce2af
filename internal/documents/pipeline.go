package documents

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/octank-fsi/dialog-agent/internal/accounts"
	logx "github.com/octank-fsi/dialog-agent/pkg/logger"
)

type PipelineConfig struct {
	TemplateKey  string `envconfig:"APPLICATION_TEMPLATE_KEY" default:"Mortgage-Loan-Application-Template.json"`
	CompletedKey string `envconfig:"APPLICATION_COMPLETED_KEY" default:"Mortgage-Loan-Application-Completed.pdf"`
	LinkTTL      int    `envconfig:"APPLICATION_LINK_TTL_SECONDS" default:"3600"`
}

// Pipeline turns a confirmed loan application into a presigned link to the
// completed form.
type Pipeline struct {
	store ObjectStore
	cfg   PipelineConfig
}

func NewPipeline(store ObjectStore, cfg PipelineConfig) *Pipeline {
	if cfg.LinkTTL <= 0 {
		cfg.LinkTTL = 3600
	}
	return &Pipeline{store: store, cfg: cfg}
}

// GenerateApplication renders the application form from the stored layout
// template, uploads the completed document, and returns a time-limited
// download link.
func (p *Pipeline) GenerateApplication(ctx context.Context, app accounts.ApplicationRecord) (string, error) {
	dir, err := os.MkdirTemp("", "loan-application-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	templatePath := filepath.Join(dir, "template.json")
	if err := p.store.Download(ctx, p.cfg.TemplateKey, templatePath); err != nil {
		logx.Error().Err(err).Str("key", p.cfg.TemplateKey).Msg("failed to fetch form template")
		return "", err
	}
	layout, err := LoadLayout(templatePath)
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(dir, p.cfg.CompletedKey)
	values := map[string]string{
		"user_name":      app.UserName,
		"loan_value":     app.LoanValue,
		"monthly_income": app.MonthlyIncome,
		"credit_score":   app.CreditScore,
		"down_payment":   app.DownPayment,
		"plan_name":      app.PlanName,
	}
	if err := RenderForm(layout, values, outPath); err != nil {
		return "", err
	}

	if err := p.store.Upload(ctx, p.cfg.CompletedKey, outPath); err != nil {
		return "", err
	}

	link, err := p.store.Presign(ctx, p.cfg.CompletedKey, time.Duration(p.cfg.LinkTTL)*time.Second)
	if err != nil {
		return "", err
	}
	logx.Info().Str("user_name", app.UserName).Msg("loan application document generated")
	return link, nil
}
