package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServerConfig is a struct that contains configuration values for the server.
type ServerConfig struct {
	// AllowedOrigins is a list of URLs that the server will accept requests from.
	AllowedOrigins []string
	// SessionCookieName is the name to use for the session cookie.
	SessionCookieName string
	// SessionCookieExpiration is the amount of time a session cookie is valid. Max 14 days.
	SessionCookieExpiration time.Duration
	// IsHTTPS marks session cookies as Secure with SameSite=None.
	IsHTTPS bool
	// Port is the port the server should run on.
	Port int

	// Backend selects the persistence/auth backend: "firebase" or "memory".
	Backend string
	// FirebaseProjectID is the Google Cloud project backing Firestore and Firebase Auth.
	FirebaseProjectID string
	// FirebaseCredentialsFile is a service account JSON file. Empty means application default credentials.
	FirebaseCredentialsFile string

	// BypassStudentIDs may log in without an allowed_students record.
	BypassStudentIDs []string
	// AdminStudentIDs may use the course editor.
	AdminStudentIDs []string
	// ChatStudentIDs may post doubts, replies and pins. Empty allows every authenticated student.
	ChatStudentIDs []string
	// ClearSessionOnSignOutFailure clears local session state even when the provider sign-out fails.
	ClearSessionOnSignOutFailure bool

	// SeedAllowedStudents are added to the allowlist when Backend is "memory".
	SeedAllowedStudents []AllowedStudentSeed

	// DoubtRateLimit is the number of doubt mutations a client may make per DoubtRateWindow.
	DoubtRateLimit  int
	DoubtRateWindow time.Duration

	// LogLevel is "debug" or "info"; LogEnv "production" switches to JSON output.
	LogLevel string
	LogEnv   string
	// LogFile, when set, additionally writes rotated JSON logs to this path.
	LogFile string
}

// AllowedStudentSeed is an allowlist entry read from the config file.
type AllowedStudentSeed struct {
	StudentID string `mapstructure:"student_id"`
	Name      string `mapstructure:"name"`
	Email     string `mapstructure:"email"`
}

func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		AllowedOrigins:               []string{"http://localhost:3000", "http://localhost:9002"},
		SessionCookieName:            "learnhub-session",
		SessionCookieExpiration:      time.Hour * 24 * 5,
		IsHTTPS:                      false,
		Port:                         8080,
		Backend:                      "firebase",
		BypassStudentIDs:             []string{"8918", "8946", "8947", "STRITH23170"},
		AdminStudentIDs:              []string{"8918"},
		ChatStudentIDs:               []string{"8918", "8946", "8947"},
		ClearSessionOnSignOutFailure: true,
		DoubtRateLimit:               20,
		DoubtRateWindow:              time.Minute,
		LogLevel:                     "info",
		LogEnv:                       "development",
	}
}

// Load reads configuration from an optional .env file, an optional config.yaml (or the file named
// by LEARNHUB_CONFIG) and LEARNHUB_* environment variables, layered over DefaultConfig.
func Load() (*ServerConfig, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("🙂 Loaded environment from .env")
	}

	def := DefaultConfig()
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if path := os.Getenv("LEARNHUB_CONFIG"); path != "" {
		v.SetConfigFile(path)
	}
	v.SetEnvPrefix("learnhub")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("allowed_origins", def.AllowedOrigins)
	v.SetDefault("session_cookie_name", def.SessionCookieName)
	v.SetDefault("session_cookie_expiration", def.SessionCookieExpiration)
	v.SetDefault("is_https", def.IsHTTPS)
	v.SetDefault("port", def.Port)
	v.SetDefault("backend", def.Backend)
	v.SetDefault("firebase_project_id", "")
	v.SetDefault("firebase_credentials_file", "")
	v.SetDefault("bypass_student_ids", def.BypassStudentIDs)
	v.SetDefault("admin_student_ids", def.AdminStudentIDs)
	v.SetDefault("chat_student_ids", def.ChatStudentIDs)
	v.SetDefault("clear_session_on_signout_failure", def.ClearSessionOnSignOutFailure)
	v.SetDefault("doubt_rate_limit", def.DoubtRateLimit)
	v.SetDefault("doubt_rate_window", def.DoubtRateWindow)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_env", def.LogEnv)
	v.SetDefault("log_file", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		log.Println("🙂️ No configuration file provided. Using defaults and environment.")
	}

	var seeds []AllowedStudentSeed
	if err := v.UnmarshalKey("seed_allowed_students", &seeds); err != nil {
		return nil, err
	}

	return &ServerConfig{
		SeedAllowedStudents:          seeds,
		AllowedOrigins:               v.GetStringSlice("allowed_origins"),
		SessionCookieName:            v.GetString("session_cookie_name"),
		SessionCookieExpiration:      v.GetDuration("session_cookie_expiration"),
		IsHTTPS:                      v.GetBool("is_https"),
		Port:                         v.GetInt("port"),
		Backend:                      strings.ToLower(v.GetString("backend")),
		FirebaseProjectID:            v.GetString("firebase_project_id"),
		FirebaseCredentialsFile:      v.GetString("firebase_credentials_file"),
		BypassStudentIDs:             v.GetStringSlice("bypass_student_ids"),
		AdminStudentIDs:              v.GetStringSlice("admin_student_ids"),
		ChatStudentIDs:               v.GetStringSlice("chat_student_ids"),
		ClearSessionOnSignOutFailure: v.GetBool("clear_session_on_signout_failure"),
		DoubtRateLimit:               v.GetInt("doubt_rate_limit"),
		DoubtRateWindow:              v.GetDuration("doubt_rate_window"),
		LogLevel:                     v.GetString("log_level"),
		LogEnv:                       v.GetString("log_env"),
		LogFile:                      v.GetString("log_file"),
	}, nil
}
