package myio_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gnames/screenload/internal/io/myio"
	"github.com/gnames/screenload/pkg/config"
	"github.com/go-sql-driver/mysql"
)

var _ = Describe("DSN", func() {
	It("uses default port", func() {
		cfg := config.New(config.OptDBName("sis"))
		mc, err := mysql.ParseDSN(myio.DSN(cfg))
		Expect(err).ToNot(HaveOccurred())
		Expect(mc.Addr).To(Equal("0.0.0.0:3306"))
		Expect(mc.DBName).To(Equal("sis"))
		Expect(mc.ParseTime).To(BeTrue())
	})

	It("keeps custom settings", func() {
		cfg := config.New(
			config.OptDBHost("db.local"),
			config.OptDBPort(3307),
			config.OptDBUser("nurse"),
			config.OptDBPass("secret"),
		)
		mc, err := mysql.ParseDSN(myio.DSN(cfg))
		Expect(err).ToNot(HaveOccurred())
		Expect(mc.Addr).To(Equal("db.local:3307"))
		Expect(mc.User).To(Equal("nurse"))
		Expect(mc.Passwd).To(Equal("secret"))
	})
})
