package auth

// knownEmailDomains dominios aceptados cuando AUTH_ENFORCE_EMAIL_DOMAINS está activo.
var knownEmailDomains = []string{
	"gmail.com", "gmail.es", "yahoo.com", "yahoo.es", "hotmail.com", "hotmail.es",
	"outlook.com", "outlook.es", "outlook.com.br", "live.com", "msn.com",
	"icloud.com", "mail.com", "aol.com", "protonmail.com", "zoho.com", "yandex.com",
	"mailbox.org", "tutanota.com", "fastmail.com", "hey.com", "inbox.com",
	"riseup.net", "posteo.de", "disroot.org", "mail.tm",
	"unal.edu.co", "javeriana.edu.co", "uninorte.edu.co", "eafit.edu.co", "andes.edu.co",
	"correounivalle.edu.co", "unicauca.edu.co", "udea.edu.co",
	"ula.ve", "cantv.net", "ucv.ve", "usb.ve", "uft.edu.ve",
	"pucp.edu.pe", "unmsm.edu.pe", "uni.edu.pe", "udep.edu.pe", "ulima.edu.pe",
	"unam.mx", "ipn.mx", "itesm.mx", "tecnologico.net.mx", "uanl.mx",
	"uce.edu.ec", "espe.edu.ec", "uio.edu.ec", "utpl.edu.ec", "puce.edu.ec",
	"espol.edu.ec", "ucsg.edu.ec",
	"empresa.com", "business.com", "work.com", "office.com", "company.com",
	"mail.ru", "rambler.ru", "yandex.ru", "bk.ru",
	"qq.com", "126.com", "163.com", "sina.com.cn", "sohu.com",
	"test.com", "example.com", "localhost.com",
}

func domainAllowed(domain string) bool {
	for _, d := range knownEmailDomains {
		if d == domain {
			return true
		}
	}
	return false
}
