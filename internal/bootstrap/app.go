package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"interview-coach/internal/conversations"
	"interview-coach/internal/evaluation"
	"interview-coach/internal/llm"
	openai "interview-coach/internal/llm/openai"
	"interview-coach/internal/shared/config"
	"interview-coach/internal/shared/storage/db"
	"interview-coach/internal/shared/storage/object"
	localstore "interview-coach/internal/shared/storage/object/local"
	"interview-coach/internal/speech"
	"interview-coach/internal/speech/elevenlabs"
	"interview-coach/internal/speech/whisper"
	"interview-coach/internal/uploads"
)

// App holds the wired application dependencies.
type App struct {
	Config config.Config
	DB     *sql.DB
	Store  object.ObjectStore
	LLM    llm.Client

	ConversationsService *conversations.Service
	SpeechService        *speech.Service

	ConversationsHandler *conversations.Handler
	SpeechHandler        *speech.Handler
	UploadsHandler       *uploads.Handler
}

// Build prepares application dependencies without wiring routes. Postgres is
// used when DATABASE_URL is set and reachable; otherwise everything falls
// back to in-memory repositories so the app still starts in dev.
func Build(cfg config.Config) *App {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB := buildDB(cfg)
	store := localstore.New(cfg.LocalStoreDir)
	client := buildLLM(cfg)
	engine := evaluation.NewEngine(client)

	var (
		convRepo      conversations.Repo
		questionsRepo conversations.QuestionsRepo
		attemptsRepo  conversations.AttemptsRepo
	)
	if sqlDB != nil {
		convRepo = &conversations.PGRepo{DB: sqlDB}
		questionsRepo = &conversations.PGQuestionsRepo{DB: sqlDB}
		attemptsRepo = &conversations.PGAttemptsRepo{DB: sqlDB}
	} else {
		convRepo = conversations.NewMemoryRepo()
		questionsRepo = conversations.NewMemoryQuestionsRepo()
		attemptsRepo = conversations.NewMemoryAttemptsRepo()
	}

	convSvc := &conversations.Service{
		Repo:      convRepo,
		Questions: questionsRepo,
		Attempts:  attemptsRepo,
		Engine:    engine,
		Store:     store,
	}
	speechSvc := &speech.Service{
		Store:       store,
		Transcriber: buildTranscriber(cfg),
		Synthesizer: buildSynthesizer(cfg),
	}

	return &App{
		Config:               cfg,
		DB:                   sqlDB,
		Store:                store,
		LLM:                  client,
		ConversationsService: convSvc,
		SpeechService:        speechSvc,
		ConversationsHandler: conversations.NewHandler(convSvc),
		SpeechHandler:        speech.NewHandler(speechSvc),
		UploadsHandler:       uploads.NewHandler(),
	}
}

func buildDB(cfg config.Config) *sql.DB {
	if cfg.DatabaseURL == "" {
		return nil
	}
	ctx := context.Background()
	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database, falling back to memory: %v", err)
		return nil
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Printf("failed to run migrations, falling back to memory: %v", err)
		_ = sqlDB.Close()
		return nil
	}
	return sqlDB
}

func buildLLM(cfg config.Config) llm.Client {
	if cfg.OpenAIAPIKey == "" {
		log.Printf("OPENAI_API_KEY not set; evaluation endpoints will return errors")
		return llm.PlaceholderClient{}
	}
	client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if err != nil {
		log.Printf("openai client unavailable: %v", err)
		return llm.PlaceholderClient{}
	}
	return client
}

func buildTranscriber(cfg config.Config) speech.Transcriber {
	if cfg.OpenAIAPIKey == "" {
		return nil
	}
	client, err := whisper.NewClient(cfg.OpenAIAPIKey)
	if err != nil {
		log.Printf("whisper client unavailable: %v", err)
		return nil
	}
	return client
}

func buildSynthesizer(cfg config.Config) speech.Synthesizer {
	if cfg.ElevenLabsAPIKey == "" {
		return nil
	}
	client, err := elevenlabs.NewClient(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID)
	if err != nil {
		log.Printf("elevenlabs client unavailable: %v", err)
		return nil
	}
	return client
}
