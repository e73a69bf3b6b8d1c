package entity

import "time"

// POSConfig numeración de un punto de venta. LastInvoiceNumber nunca decrece.
type POSConfig struct {
	POS               int
	LastInvoiceNumber int64
	UpdatedAt         time.Time
}

// Next número que se asignaría al próximo comprobante.
func (p *POSConfig) Next() int64 { return p.LastInvoiceNumber + 1 }
