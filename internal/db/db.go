package db

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options controls how the MySQL connection is initialised.
type Options struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Charset  string

	Logger       logger.Interface
	MaxOpenConns int
	MaxIdleConns int
	ConnMaxLife  time.Duration
}

const defaultCharset = "utf8mb4"

// DSN renders the go-mysql-driver connection string for opts. parseTime
// is always enabled so temporal columns scan into time.Time.
func DSN(opts Options) string {
	charset := opts.Charset
	if charset == "" {
		charset = defaultCharset
	}

	credentials := opts.User
	if opts.Password != "" {
		credentials = fmt.Sprintf("%s:%s", opts.User, opts.Password)
	}

	address := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))

	return fmt.Sprintf("%s@tcp(%s)/%s?charset=%s&parseTime=true", credentials, address, opts.Name, charset)
}

// Open establishes a MySQL connection using Gorm. Connection failures
// surface here because gorm pings the server during initialisation.
func Open(opts Options) (*gorm.DB, error) {
	if opts.Host == "" {
		return nil, eris.New("database host is required")
	}
	if opts.Name == "" {
		return nil, eris.New("database name is required")
	}

	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxLife == 0 {
		opts.ConnMaxLife = 1 * time.Hour
	}

	gormLogger := opts.Logger
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(mysql.Open(DSN(opts)), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, eris.Wrapf(err, "opening mysql database %s", opts.Name)
	}

	if err := applyConnectionSettings(db, opts); err != nil {
		return nil, err
	}

	return db, nil
}

func applyConnectionSettings(db *gorm.DB, opts Options) error {
	sqlDB, err := db.DB()
	if err != nil {
		return eris.Wrap(err, "retrieving sql.DB from gorm")
	}

	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}

	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}

	if opts.ConnMaxLife > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLife)
	}

	return nil
}

// Close releases the underlying database resources.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return eris.Wrap(err, "retrieving sql.DB for close")
	}

	if err := sqlDB.Close(); err != nil {
		return eris.Wrap(err, "closing database connection")
	}

	return nil
}
