package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	JWT       JWTConfig
	Store     StoreConfig
	DB        DBConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Email     EmailConfig
	Messenger MessengerConfig
	Analytics AnalyticsConfig
	Checkout  CheckoutConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig configuración de los tokens de cliente.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// StoreConfig selecciona el backend del almacén clave/valor.
type StoreConfig struct {
	Backend    string // memory, redis, postgres
	QuotaBytes int    // solo memory; 0 = sin límite
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int32
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// RedisConfig conexión al backend Redis/Valkey.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// AuthConfig banderas del sistema de autenticación.
//
// MasterBypassEnabled activa la credencial maestra heredada (admin/admin1234).
// Es un riesgo de seguridad documentado: debe permanecer en false fuera de demos.
type AuthConfig struct {
	HashPasswords       bool
	EmailVerification   bool
	EnforceEmailDomains bool
	MasterBypassEnabled bool
	MasterUser          string
	MasterPassword      string
	MasterEmail         string
	DemoUsersEnabled    bool
}

// EmailConfig servidor SMTP para el envío de códigos de verificación.
type EmailConfig struct {
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	From           string
	TimeoutSeconds int
}

// Enabled indica si hay un servidor SMTP configurado.
func (c EmailConfig) Enabled() bool {
	return c.SMTPHost != ""
}

// MessengerConfig destino del deep link de confirmación de pedidos.
type MessengerConfig struct {
	WhatsAppPhone string
	BusinessName  string
}

// AnalyticsConfig destino de los eventos de analítica.
type AnalyticsConfig struct {
	AMQPURL    string
	Queue      string
	LocalHosts []string
}

// CheckoutConfig parámetros de cálculo del pedido.
type CheckoutConfig struct {
	TaxRate  string // decimal, ej: "0.21"
	Currency string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, STORE_BACKEND, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "liberty-store"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60*24*30),
			Issuer:     getString(v, "JWT_ISSUER", "liberty-store"),
		},
		Store: StoreConfig{
			Backend:    getString(v, "STORE_BACKEND", "memory"),
			QuotaBytes: getInt(v, "STORE_QUOTA_BYTES", 5*1024*1024),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "liberty_store"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    int32(getInt(v, "DB_MAX_CONNS", 10)),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
			Prefix:   getString(v, "REDIS_PREFIX", "liberty:"),
		},
		Auth: AuthConfig{
			HashPasswords:       getBool(v, "AUTH_HASH_PASSWORDS", true),
			EmailVerification:   getBool(v, "AUTH_EMAIL_VERIFICATION", false),
			EnforceEmailDomains: getBool(v, "AUTH_ENFORCE_EMAIL_DOMAINS", false),
			MasterBypassEnabled: getBool(v, "AUTH_MASTER_BYPASS_ENABLED", false),
			MasterUser:          getString(v, "AUTH_MASTER_USER", "admin"),
			MasterPassword:      getString(v, "AUTH_MASTER_PASSWORD", "admin1234"),
			MasterEmail:         getString(v, "AUTH_MASTER_EMAIL", "admin@liberty.com"),
			DemoUsersEnabled:    getBool(v, "AUTH_DEMO_USERS", true),
		},
		Email: EmailConfig{
			SMTPHost:       getString(v, "SMTP_HOST", ""),
			SMTPPort:       getInt(v, "SMTP_PORT", 587),
			SMTPUser:       getString(v, "SMTP_USER", ""),
			SMTPPassword:   getString(v, "SMTP_PASSWORD", ""),
			From:           getString(v, "EMAIL_FROM", "libertycompanyceo@gmail.com"),
			TimeoutSeconds: getInt(v, "EMAIL_TIMEOUT_SECONDS", 10),
		},
		Messenger: MessengerConfig{
			WhatsAppPhone: getString(v, "WHATSAPP_PHONE", "593985831655"),
			BusinessName:  getString(v, "BUSINESS_NAME", "Liberty Company"),
		},
		Analytics: AnalyticsConfig{
			AMQPURL:    getString(v, "ANALYTICS_AMQP_URL", ""),
			Queue:      getString(v, "ANALYTICS_QUEUE", "storefront.analytics"),
			LocalHosts: getList(v, "ANALYTICS_LOCAL_HOSTS", []string{"localhost", "127.0.0.1"}),
		},
		Checkout: CheckoutConfig{
			TaxRate:  getString(v, "CHECKOUT_TAX_RATE", "0.21"),
			Currency: getString(v, "CHECKOUT_CURRENCY", "EUR"),
		},
	}

	if cfg.App.Env == "production" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio en producción")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func getList(v *viper.Viper, key string, def []string) []string {
	if !v.IsSet(key) {
		return def
	}
	var out []string
	for _, s := range strings.Split(v.GetString(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
