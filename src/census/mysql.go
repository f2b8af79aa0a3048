package census

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/iafilius/CensusScatter/src/logging"
)

// MySQLConfig holds the connection settings for the census table.
type MySQLConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	User   string `yaml:"user"`
	Pass   string `yaml:"pass"`
	DBName string `yaml:"dbname"`
	Table  string `yaml:"table"`
}

// DSN renders the go-sql-driver style connection string.
func (c MySQLConfig) DSN() string {
	port := c.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User,
		c.Pass,
		c.Host,
		port,
		c.DBName,
	)
}

// CensusRow is the gorm model of one row in the census table.
type CensusRow struct {
	ID         int     `gorm:"primaryKey;column:id"`
	State      string  `gorm:"size:64;not null;column:state"`
	Abbr       string  `gorm:"size:2;not null;column:abbr"`
	Poverty    float64 `gorm:"not null;column:poverty"`
	Age        float64 `gorm:"not null;column:age"`
	Income     float64 `gorm:"not null;column:income"`
	Healthcare float64 `gorm:"not null;column:healthcare"`
	Obesity    float64 `gorm:"not null;column:obesity"`
	Smokes     float64 `gorm:"not null;column:smokes"`
}

func (CensusRow) TableName() string {
	return "census"
}

func (r CensusRow) record() Record {
	return Record{
		ID:         r.ID,
		State:      r.State,
		Abbr:       r.Abbr,
		Poverty:    r.Poverty,
		Age:        r.Age,
		Income:     r.Income,
		Healthcare: r.Healthcare,
		Obesity:    r.Obesity,
		Smokes:     r.Smokes,
	}
}

// OpenMySQL connects to the configured database and verifies the connection.
func OpenMySQL(cfg MySQLConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, &LoadError{Stage: "connect", Err: err}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, &LoadError{Stage: "connect", Err: err}
	}

	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, &LoadError{Stage: "connect", Err: err}
	}
	return db, nil
}

// MySQLSource reads the dataset from a census table through gorm.
type MySQLSource struct {
	DB    *gorm.DB
	Table string
}

// Load implements Source.
func (s MySQLSource) Load(ctx context.Context) (Dataset, error) {
	defer logging.TimeTrack(time.Now(), "mysql load")
	if s.DB == nil {
		return Dataset{}, &LoadError{Stage: "query", Err: fmt.Errorf("nil database handle")}
	}
	q := s.DB.WithContext(ctx)
	if s.Table != "" {
		q = q.Table(s.Table)
	}
	var rows []CensusRow
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return Dataset{}, &LoadError{Stage: "query", Err: err}
	}
	recs := make([]Record, len(rows))
	for i, r := range rows {
		recs[i] = r.record()
	}
	logging.Infof("loaded %d records from mysql table %s", len(recs), tableName(s.Table))
	return Dataset{records: recs}, nil
}

// Close releases the connection pool behind DB.
func (s MySQLSource) Close() error {
	if s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func tableName(t string) string {
	if t == "" {
		return CensusRow{}.TableName()
	}
	return t
}
