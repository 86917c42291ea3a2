package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Store.AutoMigrate)
	assert.Equal(t, 2, cfg.Policy.CreditLimit)
	assert.False(t, cfg.Policy.RestoreCreditOnCancel)
	assert.True(t, cfg.Policy.DecrementStockOnSale)
	assert.Equal(t, "reject", cfg.Policy.Overpayment)
	assert.Equal(t, 10, cfg.Policy.LowStockThreshold)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.DB.ForceIPv4)
	assert.Equal(t, 5000, cfg.DB.StatementTimeoutMS)
}

func TestFromViper_Politicas(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "Postgres")
	v.Set("CREDIT_LIMIT", "3")
	v.Set("RESTORE_CREDIT_ON_CANCEL", "true")
	v.Set("DECREMENT_STOCK_ON_SALE", "false")
	v.Set("OVERPAYMENT_POLICY", "CLAMP")
	v.Set("LOG_LEVEL", "debug")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Policy.CreditLimit)
	assert.True(t, cfg.Policy.RestoreCreditOnCancel)
	assert.False(t, cfg.Policy.DecrementStockOnSale)
	assert.Equal(t, "clamp", cfg.Policy.Overpayment)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestFromViper_Invalidos(t *testing.T) {
	cases := map[string]string{
		"STORE_DRIVER":        "sqlite",
		"CREDIT_LIMIT":        "0",
		"OVERPAYMENT_POLICY":  "refund",
		"LOW_STOCK_THRESHOLD": "-1",

		"DB_STATEMENT_TIMEOUT_MS": "-5",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			v := viper.New()
			v.Set(key, val)
			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "pos", Password: "p@ss:w/rd", DBName: "pos_feria", SSLMode: "disable"}
	assert.Equal(t, "postgres://pos:p%40ss%3Aw%2Frd@db:5432/pos_feria?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otra"
	assert.Equal(t, "postgres://otra", c.ConnectionString())
}
