package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Emisor is the issuer identity printed on every document. Nombre and NIF
// must be filled in before the first document can be issued.
type Emisor struct {
	Nombre       string `mapstructure:"nombre"        json:"nombre"`
	NIF          string `mapstructure:"nif"           json:"nif"`
	Direccion    string `mapstructure:"direccion"     json:"direccion"`
	CodigoPostal string `mapstructure:"codigo_postal" json:"codigo_postal"`
	Ciudad       string `mapstructure:"ciudad"        json:"ciudad"`
	Provincia    string `mapstructure:"provincia"     json:"provincia"`
	Email        string `mapstructure:"email"         json:"email"`
	Telefono     string `mapstructure:"telefono"      json:"telefono"`
	// IBAN is printed on facturas paid by "Transferencia bancaria".
	IBAN string `mapstructure:"iban" json:"iban"`
}

// Config holds everything read from config.json, with FACTURADOR_* env
// variables taking precedence (FACTURADOR_EMISOR_NIF, FACTURADOR_DB_PATH...).
type Config struct {
	Emisor Emisor `mapstructure:"emisor"`

	// Series are the letter codes stamped into document numbers. Changing
	// one mid-year simply opens a fresh counter; numbers already issued
	// keep their printed form forever.
	SerieFactura     string `mapstructure:"serie_factura"`
	SeriePresupuesto string `mapstructure:"serie_presupuesto"`
	SerieAlbaran     string `mapstructure:"serie_albaran"`

	// Form defaults
	IVAPorDefecto          float64 `mapstructure:"iva_por_defecto"`
	IRPFPorDefecto         float64 `mapstructure:"irpf_por_defecto"`
	DiasValidezPresupuesto int     `mapstructure:"dias_validez_presupuesto"`

	// RechazoBloqueaEmision: when true, a venta marked rechazada refuses to
	// issue further documents until the user accepts it explicitly.
	RechazoBloqueaEmision bool `mapstructure:"rechazo_bloquea_emision"`

	// Runtime
	ListenAddr    string `mapstructure:"listen_addr"`
	DBPath        string `mapstructure:"db_path"`
	DocumentosDir string `mapstructure:"documentos_dir"`
	Env           string `mapstructure:"env"` // development | production
}

// SeriePara returns the configured serie code for a document tipo.
func (c *Config) SeriePara(tipo string) string {
	switch tipo {
	case "presupuesto":
		return c.SeriePresupuesto
	case "albaran":
		return c.SerieAlbaran
	default:
		return c.SerieFactura
	}
}

// Load reads config.json from FACTURADOR_CONFIG_DIR (default: the working
// directory) and applies defaults plus env overrides. On first run, when no
// file exists yet, it writes a template with every key for the user to edit
// and continues on the defaults.
func Load() (*Config, error) {
	dir := os.Getenv("FACTURADOR_CONFIG_DIR")
	if dir == "" {
		dir = "."
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("FACTURADOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("emisor.nombre", "")
	v.SetDefault("emisor.nif", "")
	v.SetDefault("emisor.direccion", "")
	v.SetDefault("emisor.codigo_postal", "")
	v.SetDefault("emisor.ciudad", "")
	v.SetDefault("emisor.provincia", "")
	v.SetDefault("emisor.email", "")
	v.SetDefault("emisor.telefono", "")
	v.SetDefault("emisor.iban", "")
	v.SetDefault("serie_factura", "A")
	v.SetDefault("serie_presupuesto", "P")
	v.SetDefault("serie_albaran", "AL")
	v.SetDefault("iva_por_defecto", 21.0)
	v.SetDefault("irpf_por_defecto", 0.0)
	v.SetDefault("dias_validez_presupuesto", 30)
	v.SetDefault("rechazo_bloquea_emision", false)
	v.SetDefault("listen_addr", "127.0.0.1:8440")
	v.SetDefault("db_path", "facturador.db")
	v.SetDefault("documentos_dir", "Documentos")
	v.SetDefault("env", "development")

	if err := v.ReadInConfig(); err != nil {
		var noExiste viper.ConfigFileNotFoundError
		if !errors.As(err, &noExiste) {
			return nil, fmt.Errorf("config: leer config.json: %w", err)
		}
		// First run: leave a template behind so the user sees every key.
		_ = v.SafeWriteConfigAs(filepath.Join(dir, "config.json"))
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validar(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validar() error {
	if c.SerieFactura == "" || c.SeriePresupuesto == "" || c.SerieAlbaran == "" {
		return fmt.Errorf("config: las series de numeración no pueden estar vacías")
	}
	if c.DiasValidezPresupuesto < 0 {
		return fmt.Errorf("config: dias_validez_presupuesto no puede ser negativo")
	}

	// This process is a local bridge for the desktop shell. Refusing any
	// non loopback listen address keeps it from quietly becoming a network
	// service.
	host, _, err := net.SplitHostPort(c.ListenAddr)
	if err != nil {
		return fmt.Errorf("config: listen_addr %q: %w", c.ListenAddr, err)
	}
	if host != "localhost" {
		ip := net.ParseIP(host)
		if ip == nil || !ip.IsLoopback() {
			return fmt.Errorf("config: listen_addr %q debe ser una dirección loopback", c.ListenAddr)
		}
	}
	return nil
}
