package database

import (
	"database/sql"
	"log"
	"sync"

	"github.com/harukitakahashi812/creator-platform/internal/cache"

	_ "github.com/lib/pq"

	"github.com/harukitakahashi812/creator-platform/config"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn  *sql.DB
	Cache cache.Cache
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		cach, errCache := cache.NewCache()
		if errCache != nil {
			log.Printf("project cache unavailable, reads go straight to the database: %v", errCache)
		}
		instance = &Datasource{Conn: con, Cache: cach}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database Connection error ❌: %v", err)
		return nil, err
	}
	err = createProjectTable(db)
	if err != nil {
		return nil, err
	}
	err = createConversionTable(db)
	if err != nil {
		return nil, err
	}
	err = createCredentialTable(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// createProjectTable creates a PostgreSQL table for the Project struct
func createProjectTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS projects (
			id SERIAL PRIMARY KEY,
			project_id TEXT NOT NULL UNIQUE,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			project_type TEXT NOT NULL,
			price NUMERIC(20,4) NOT NULL,
			subscription BOOLEAN NOT NULL DEFAULT FALSE,
			billing_interval TEXT,
			deadline TIMESTAMP,
			file_link TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			rejection_reason TEXT,
			gumroad_link TEXT,
			funded_amount NUMERIC(20,4) NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	log.Println(err)
	return err
}

// createConversionTable creates a PostgreSQL table for conversion events.
// The unique identity_key is what makes duplicate postbacks a no-op.
func createConversionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS conversions (
			id SERIAL PRIMARY KEY,
			conversion_id TEXT NOT NULL UNIQUE,
			identity_key TEXT NOT NULL UNIQUE,
			provider TEXT NOT NULL,
			transaction_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			project_id TEXT,
			payout NUMERIC(20,4) NOT NULL DEFAULT 0,
			raw_params JSONB,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	log.Println(err)
	return err
}

// createCredentialTable creates a PostgreSQL table for Gumroad credentials
func createCredentialTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS gumroad_credentials (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL,
			password TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	log.Println(err)
	return err
}
