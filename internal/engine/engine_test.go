package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/audityzer-org/audityzer/internal/config"
	"github.com/audityzer-org/audityzer/internal/model"
)

const vulnerableContract = `contract Vault {
    uint256 balance;

    function withdraw() public {
        msg.sender.call{value: 1}("");
        balance = 0;
    }
}
`

const cleanContract = `contract Token {
    function balanceOf(address who) public view returns (uint256) {
        return 0;
    }
}
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func newTestEngine(cfg config.Config) *Engine {
	return New(Options{Config: cfg, NoCache: true, Logger: zap.NewNop()})
}

func TestScanFindsVulnerableFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"vault.sol":  vulnerableContract,
		"token.sol":  cleanContract,
		"readme.md":  "not solidity",
		"sub/v2.sol": vulnerableContract,
	})

	result, err := newTestEngine(config.Default()).Scan(context.Background(), root)
	require.NoError(t, err)
	require.NotEmpty(t, result.RunID)
	require.Equal(t, 3, result.Files)
	require.Equal(t, 3, result.DetectorsRun)
	require.Len(t, result.Findings, 2)
	for _, f := range result.Findings {
		require.Equal(t, model.SeverityCritical, f.Severity)
		require.Contains(t, f.File, ".sol")
	}
}

func TestScanSkipsUnparsableFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"good.sol":   vulnerableContract,
		"broken.sol": "contract Broken {",
	})

	result, err := newTestEngine(config.Default()).Scan(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, 1, result.Files)
	require.Len(t, result.Findings, 1)
}

func TestScanSingleFilePath(t *testing.T) {
	root := writeTree(t, map[string]string{"vault.sol": vulnerableContract})

	result, err := newTestEngine(config.Default()).Scan(context.Background(), filepath.Join(root, "vault.sol"))
	require.NoError(t, err)
	require.Equal(t, 1, result.Files)
	require.Len(t, result.Findings, 1)
}

func TestScanSeverityThreshold(t *testing.T) {
	root := writeTree(t, map[string]string{"vault.sol": vulnerableContract})
	cfg := config.Default()
	cfg.SeverityThreshold = "critical"

	result, err := newTestEngine(cfg).Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, result.Findings, 1)

	cfg.SeverityThreshold = "critical"
	cfg.Ignore = []config.IgnoreRule{{Detector: "reentrancy-detector"}}
	result, err = newTestEngine(cfg).Scan(context.Background(), root)
	require.NoError(t, err)
	require.Empty(t, result.Findings)
}

func TestScanExtraRules(t *testing.T) {
	source := "pragma solidity ^0.8.0;\n\n" + cleanContract
	root := writeTree(t, map[string]string{"token.sol": source})

	cfg := config.Default()
	result, err := newTestEngine(cfg).Scan(context.Background(), root)
	require.NoError(t, err)
	require.Empty(t, result.Findings)
	require.Equal(t, 3, result.DetectorsRun)

	cfg.ExtraRules = true
	result, err = newTestEngine(cfg).Scan(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, 7, result.DetectorsRun)
	require.Len(t, result.Findings, 1)
	require.Equal(t, "floating-pragma-detector", result.Findings[0].Detector)
}

func TestBaselineSuppression(t *testing.T) {
	root := writeTree(t, map[string]string{"vault.sol": vulnerableContract})
	eng := newTestEngine(config.Default())

	first, err := eng.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, first.Findings, 1)

	baselinePath := filepath.Join(t.TempDir(), "baseline.json")
	require.NoError(t, WriteBaseline(baselinePath, first.Findings))

	suppressed := New(Options{Config: config.Default(), Baseline: baselinePath, NoCache: true})
	second, err := suppressed.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Empty(t, second.Findings)
}

func TestFilterBySeverity(t *testing.T) {
	findings := []FileFinding{
		{File: "a.sol", Vulnerability: model.Vulnerability{Severity: model.SeverityCritical}},
		{File: "b.sol", Vulnerability: model.Vulnerability{Severity: model.SeverityMedium}},
		{File: "c.sol", Vulnerability: model.Vulnerability{Severity: model.SeverityInfo}},
	}
	cfg := config.Default()
	cfg.SeverityThreshold = "medium"
	out := filterBySeverity(findings, cfg)
	require.Len(t, out, 2)

	cfg.SeverityThreshold = "info"
	require.Len(t, filterBySeverity(findings, cfg), 3)
}

func TestApplyIgnores(t *testing.T) {
	findings := []FileFinding{
		{File: "contracts/vault.sol", Vulnerability: model.Vulnerability{Detector: "reentrancy-detector"}},
		{File: "vendor/dep.sol", Vulnerability: model.Vulnerability{Detector: "reentrancy-detector"}},
		{File: "contracts/token.sol", Vulnerability: model.Vulnerability{Detector: "tx-origin-detector"}},
	}
	cfg := config.Default()
	cfg.Ignore = []config.IgnoreRule{
		{Detector: "*", Path: "vendor/"},
		{Detector: "tx-origin-detector"},
	}
	out := applyIgnores(findings, cfg)
	require.Len(t, out, 1)
	require.Equal(t, "contracts/vault.sol", out[0].File)
}
