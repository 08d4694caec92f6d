package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"property-wizard/handler"
	"property-wizard/internal/integrations/openai"
	"property-wizard/internal/integrations/paramstore"
	"property-wizard/internal/repository"
	"property-wizard/internal/usecase"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	propertyTable := mustEnv("PROPERTY_TABLE")
	paramPrefix := mustEnv("PARAM_PREFIX")
	maxAnswerLen := envInt("MAX_ANSWER_LENGTH", 300)
	maxHistory := envInt("MAX_HISTORY", 60)

	// ---- AWS SDK config ----
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	// ---- Clients ----
	ssmClient, err := paramstore.New(awsssm.NewFromConfig(cfg))
	if err != nil {
		slog.Error("failed to create SSM client", "err", err)
		os.Exit(1)
	}
	propertyStore, err := repository.New(awsdynamodb.NewFromConfig(cfg), propertyTable)
	if err != nil {
		slog.Error("failed to create property store", "err", err)
		os.Exit(1)
	}
	moderator, err := openai.NewModerationClient(ssmClient, paramPrefix)
	if err != nil {
		slog.Error("failed to create moderation client", "err", err)
		os.Exit(1)
	}

	// ---- Handler ----
	wizardService, err := usecase.NewWizardService(ssmClient, moderator, propertyStore, paramPrefix, maxAnswerLen, maxHistory)
	if err != nil {
		slog.Error("failed to create wizard service", "err", err)
		os.Exit(1)
	}

	h, err := handler.NewHandler(wizardService)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		slog.Error("required environment variable is not set", "key", key)
		os.Exit(1)
	}
	return v
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("ignoring invalid integer environment variable", "key", key, "value", v)
		return def
	}
	return n
}
