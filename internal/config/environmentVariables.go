package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//TODO:this will differ based on the embedding provider
	EmbeddingOutputDimensionality int32 = 1536
	CollectionBaseName                  = "invoices-enhanced"

	//how many documents go into one embed+upsert call during rebuild,
	//bounds peak memory for big spreadsheets
	IndexBatchSize = 50

	//retrieval
	RetrievalTopK        = 6
	SummaryTopK          = 4
	SummarySearchText    = "summary statistics overall"
	NoInformationMessage = "I do not have enough information to answer this query."

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//vectorDB
	QdrantHost             = "127.0.0.1"
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false
	QdrantPoolSize         = 1 //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTimeout = 30 * time.Second

	//llm - any OpenAI compatible chat completions endpoint works here
	LLMEndpoint           = "http://127.0.0.1:39281/v1"
	LLMModelName          = "llama3.2:1b"
	LLMApiKey             = "not-needed"
	ModelTemperature      = 0.1 //low to reduce hallucination over tabular facts
	ModelTopP             = 0.9
	ModelMaxTokens  int64 = 512

	//embeddings
	GoogleEmbeddingModel = "gemini-embedding-001"

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//file handling
	UploadsDir     = "data/uploads"
	ProcessedDir   = "data/processed"
	PreviewRows    = 5
	MaxUploadBytes = 32 << 20 //32mb

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisDatasetStore = 0

	RedisDatasetStoreTTL = 24 * time.Hour
)

// GoogleEmbeddingAPIKey comes from the environment only - never a checked in constant.
func GoogleEmbeddingAPIKey() string {
	return os.Getenv("GOOGLE_API_KEY")
}

// AuthToken enables bearer auth on the HTTP surface when set. Empty means
// local development with no auth.
func AuthToken() string {
	return os.Getenv("AUTH_TOKEN")
}

func LLMEndpointAddr() string {
	if v := os.Getenv("LLM_ENDPOINT"); v != "" {
		return v
	}
	return LLMEndpoint
}

func LLMModel() string {
	if v := os.Getenv("LLM_MODEL"); v != "" {
		return v
	}
	return LLMModelName
}
