package domain

import "strings"

// iso4217 lists ISO-4217 alphabetic codes: the current list one (including
// fund codes, SDR, VED, XCG and ZWG) plus ANG and ZWL, which were replaced
// recently enough to appear in older posts. Precious metals and testing codes
// are left out.
var iso4217 = map[string]struct{}{}

func init() {
	codes := strings.Fields(`
		AED AFN ALL AMD ANG AOA ARS AUD AWG AZN BAM BBD BDT BGN BHD BIF BMD BND
		BOB BOV BRL BSD BTN BWP BYN BZD CAD CDF CHE CHF CHW CLF CLP CNY COP COU
		CRC CUP CVE CZK DJF DKK DOP DZD EGP ERN ETB EUR FJD FKP GBP GEL GHS GIP
		GMD GNF GTQ GYD HKD HNL HTG HUF IDR ILS INR IQD IRR ISK JMD JOD JPY KES
		KGS KHR KMF KPW KRW KWD KYD KZT LAK LBP LKR LRD LSL LYD MAD MDL MGA MKD
		MMK MNT MOP MRU MUR MVR MWK MXN MXV MYR MZN NAD NGN NIO NOK NPR NZD OMR
		PAB PEN PGK PHP PKR PLN PYG QAR RON RSD RUB RWF SAR SBD SCR SDG SEK SGD
		SHP SLE SOS SRD SSP STN SVC SYP SZL THB TJS TMT TND TOP TRY TTD TWD TZS
		UAH UGX USD USN UYI UYU UYW UZS VED VES VND VUV WST XAF XCD XCG XDR XOF
		XPF XSU XUA YER ZAR ZMW ZWG ZWL
	`)
	for _, c := range codes {
		iso4217[c] = struct{}{}
	}
}

// NormalizeCurrency upper-cases and trims a currency code and returns it if
// it is a known three-letter ISO-4217 code. Anything else yields "".
func NormalizeCurrency(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) != 3 {
		return ""
	}
	for i := 0; i < 3; i++ {
		if c[i] < 'A' || c[i] > 'Z' {
			return ""
		}
	}
	if _, ok := iso4217[c]; !ok {
		return ""
	}
	return c
}
