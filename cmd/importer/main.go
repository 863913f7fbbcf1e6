// Importador de exports do POS (CSV) para o MongoDB: vendas, cadastro de
// clientes e segmentação RFM. Deduplicação por hash de importação, gravação
// em lotes e registro no histórico de uploads.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"lavapop_analytics/config"
	"lavapop_analytics/internal/locale"
	"lavapop_analytics/internal/logger"
	"lavapop_analytics/internal/sales"
	"lavapop_analytics/internal/store"
)

const (
	datasetSales     = "vendas"
	datasetCustomers = "clientes"
	datasetRFM       = "rfm"
)

func main() {
	var (
		filePath = flag.String("file", "", "caminho do CSV a importar")
		dataset  = flag.String("dataset", "", "tipo do arquivo: vendas, clientes ou rfm (vazio = detectar pelo cabeçalho)")
	)
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "uso: importer -file <export.csv> [-dataset vendas|clientes|rfm]")
		os.Exit(2)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "erro de configuração: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "erro ao inicializar o logging: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetImportLogger()

	ctx := context.Background()
	st, err := store.Connect(ctx, cfg.MongoDB_ConnectionURI, cfg.MongoDB_DBName)
	if err != nil {
		log.Fatalf("Erro ao conectar no MongoDB: %v", err)
	}
	defer st.Close(ctx)
	if err := st.EnsureCollections(ctx); err != nil {
		log.Fatalf("Erro ao garantir collections: %v", err)
	}

	rows, err := readCSV(*filePath)
	if err != nil {
		log.Fatalf("Erro na leitura do CSV: %v", err)
	}
	if *dataset == "" {
		*dataset = detectDataset(rows)
	}
	if *dataset == "" {
		log.Fatalf("Não foi possível detectar o tipo do arquivo %s; informe -dataset", *filePath)
	}

	rec := store.UploadRecord{
		FileName:  filepath.Base(*filePath),
		Dataset:   *dataset,
		StartedAt: time.Now().In(locale.TimeZone),
		RowsRead:  len(rows),
		Status:    "success",
	}

	switch *dataset {
	case datasetSales:
		err = importSales(ctx, st, cfg, rows, &rec)
	case datasetCustomers:
		err = importCustomers(ctx, st, cfg, rows, &rec)
	case datasetRFM:
		err = importRFM(ctx, st, rows, &rec)
	default:
		log.Fatalf("Dataset desconhecido: %s", *dataset)
	}

	rec.FinishedAt = time.Now().In(locale.TimeZone)
	if err != nil {
		rec.Status = "failed"
		rec.Error = err.Error()
	}
	if histErr := st.Uploads().Record(ctx, rec); histErr != nil {
		log.Errorf("Erro ao gravar o histórico de upload: %v", histErr)
	}
	if err != nil {
		log.Fatalf("Importação falhou: %v", err)
	}

	log.WithField("file", rec.FileName).
		WithField("dataset", rec.Dataset).
		WithField("read", rec.RowsRead).
		WithField("loaded", rec.RowsLoaded).
		WithField("duplicates", rec.Duplicates).
		WithField("skipped", rec.Skipped).
		Info("Importação concluída")
}

// importSales converte, deduplica contra o banco e grava em lotes.
func importSales(ctx context.Context, st *store.Store, cfg *config.Configuration, rows []map[string]string, rec *store.UploadRecord) error {
	records := sales.FromRows(rows)
	rec.Skipped = len(rows) - len(records)

	existing, err := st.Sales().ExistingHashes(ctx)
	if err != nil {
		return err
	}
	fresh := records[:0]
	for _, r := range records {
		if _, dup := existing[r.ImportHash]; dup {
			rec.Duplicates++
			continue
		}
		fresh = append(fresh, r)
	}

	bar := progressbar.NewOptions(len(fresh),
		progressbar.OptionSetDescription("Gravando vendas"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	batchSize := cfg.ImportBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	for start := 0; start < len(fresh); start += batchSize {
		end := start + batchSize
		if end > len(fresh) {
			end = len(fresh)
		}
		inserted, updated, err := st.Sales().UpsertBatch(ctx, fresh[start:end])
		if err != nil {
			return err
		}
		rec.RowsLoaded += inserted + updated
		bar.Add(end - start)
	}
	return nil
}

// importCustomers grava o cadastro com upsert por documento.
func importCustomers(ctx context.Context, st *store.Store, cfg *config.Configuration, rows []map[string]string, rec *store.UploadRecord) error {
	parsed := make([]sales.CustomerRow, 0, len(rows))
	for _, row := range rows {
		cust, ok := sales.CustomerFromRow(row)
		if !ok {
			rec.Skipped++
			continue
		}
		parsed = append(parsed, cust)
	}

	bar := progressbar.NewOptions(len(parsed),
		progressbar.OptionSetDescription("Gravando cadastro"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	batchSize := cfg.ImportBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	for start := 0; start < len(parsed); start += batchSize {
		end := start + batchSize
		if end > len(parsed) {
			end = len(parsed)
		}
		n, err := st.Customers().UpsertBatch(ctx, parsed[start:end])
		if err != nil {
			return err
		}
		rec.RowsLoaded += n
		bar.Add(end - start)
	}
	return nil
}

// importRFM substitui o dataset de segmentação por inteiro.
func importRFM(ctx context.Context, st *store.Store, rows []map[string]string, rec *store.UploadRecord) error {
	parsed := make([]sales.RFMRow, 0, len(rows))
	for _, row := range rows {
		doc := locale.NormalizeDoc(pick(row, "Documento", "Doc_Cliente", "doc"))
		if doc == "" {
			rec.Skipped++
			continue
		}
		parsed = append(parsed, sales.RFMRow{
			Doc:     doc,
			Name:    pick(row, "Nome", "name"),
			Segment: pick(row, "Segmento", "segmento", "segment"),
		})
	}
	if err := st.Customers().ReplaceRFM(ctx, parsed); err != nil {
		return err
	}
	rec.RowsLoaded = len(parsed)
	return nil
}

func pick(row map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != "" {
			return v
		}
	}
	return ""
}
