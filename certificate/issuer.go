package certificate

import (
	"context"
	"errors"
	"time"

	"github.com/relabs-tech/certify/certificate/pdf"
	"github.com/relabs-tech/certify/certificate/store"
	"github.com/relabs-tech/certify/core/logger"
)

// Issuance is the outcome of one successful issuance.
type Issuance struct {
	// URL is where the published certificate can be retrieved.
	URL string
	// AlreadyIssued is true when the ledger had a record for the identity
	// before this request.
	AlreadyIssued bool
}

// Issuer runs the issuance pipeline: ledger check, template render, PDF export,
// artifact publish. The stages run strictly in this order, there are no
// retries, and the first failure aborts the rest of the pipeline.
type Issuer struct {
	ledger   Ledger
	renderer *Renderer
	exporter *pdf.Exporter
	store    store.Driver
	now      func() time.Time
}

// Issue issues a certificate for req. The issuance is recorded in the ledger
// only if the identity has not been recorded before; the document is rendered
// and published in every case, overwriting any previously published artifact
// for the same identity.
func (i *Issuer) Issue(ctx context.Context, req Request) (Issuance, error) {
	rlog := logger.FromContext(ctx).WithField("certificate", req.ID)

	exists, err := i.ledger.HasIssued(ctx, req.ID)
	if err != nil {
		return Issuance{}, err
	}
	if !exists {
		err = i.ledger.RecordIssuance(ctx, Record{
			ID:        req.ID,
			Name:      req.Name,
			Grade:     req.Grade,
			CreatedAt: i.now().UnixMilli(),
		})
		if err != nil {
			return Issuance{}, err
		}
	} else {
		rlog.Infoln("certificate already recorded, re-rendering")
	}

	markup, err := i.renderer.Render(req)
	if err != nil {
		return Issuance{}, err
	}

	document, err := i.exporter.Export(ctx, markup)
	if err != nil {
		return Issuance{}, classifyExportError(err)
	}

	url, err := i.store.Upload(ctx, req.ID+".pdf", "application/pdf", document)
	if err != nil {
		return Issuance{}, newError(KindPublish, err)
	}

	rlog.Infoln("certificate published at ", url)
	return Issuance{URL: url, AlreadyIssued: exists}, nil
}

func classifyExportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(KindExportTimeout, err)
	}
	return newError(KindEngineUnavailable, err)
}
