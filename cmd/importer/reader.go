package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// detectDelimiter decide entre ';' e ',' pela primeira linha. Exports do
// POS brasileiro costumam vir com ';' por causa da vírgula decimal.
func detectDelimiter(firstLine string) rune {
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}

// readCSV lê o arquivo inteiro como linhas chaveadas pelo cabeçalho.
// Linhas com contagem errada de campos são toleradas pelo reader e
// descartadas depois pelo adapter.
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir %s: %w", path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	firstLine, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("erro ao ler o cabeçalho de %s: %w", path, err)
	}

	reader := csv.NewReader(io.MultiReader(strings.NewReader(firstLine), br))
	reader.Comma = detectDelimiter(firstLine)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("erro ao ler %s: %w", path, err)
	}
	if len(all) < 2 {
		return nil, nil
	}

	header := all[0]
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\uFEFF"))
	}

	rows := make([]map[string]string, 0, len(all)-1)
	for _, rec := range all[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// detectDataset decide o tipo do arquivo pelo cabeçalho.
func detectDataset(rows []map[string]string) string {
	if len(rows) == 0 {
		return ""
	}
	row := rows[0]
	if _, ok := row["Segmento"]; ok {
		return datasetRFM
	}
	if _, ok := row["segmento"]; ok {
		return datasetRFM
	}
	if _, ok := row["Saldo_Carteira"]; ok {
		return datasetCustomers
	}
	if _, ok := row["Data_Cadastro"]; ok {
		return datasetCustomers
	}
	for _, key := range []string{"Data_Hora", "Data", "date", "timestamp"} {
		if _, ok := row[key]; ok {
			return datasetSales
		}
	}
	return ""
}
