package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestrator
		"Input %s: %s %dx%d %s, time base %s":              "入力 %s: %s %dx%d %s, タイムベース %s",
		"Encoding %d frames as %s %s, channel capacity %d": "%d フレームを %s (%s) としてエンコード中, チャネル容量 %d",
		"Wrote %s":                                      "%s を書き出しました",
		"Failed to open %s: %v":                         "%s を開けませんでした: %v",
		"Stream %d of %s has no frames":                 "%[2]s のストリーム %[1]d にフレームがありません",
		"Failed to configure %s encoder: %v":            "%s エンコーダーの設定に失敗しました: %v",
		"Failed to create %s: %v":                       "%s を作成できませんでした: %v",
		"Transcode of %s failed: %v":                    "%s の変換に失敗しました: %v",
		"Failed to save debug stream info: %v":          "デバッグ用ストリーム情報の保存に失敗しました: %v",
		"Skipping debug snapshot of frame %d: %v":       "フレーム %d のデバッグスナップショットをスキップします: %v",
		"Failed to save debug snapshot of frame %d: %v": "フレーム %d のデバッグスナップショットの保存に失敗しました: %v",

		// Frame source
		"Selected stream %d: %s %dx%d %s, time base %s, %d frames": "ストリーム %d を選択: %s %dx%d %s, タイムベース %s, %d フレーム",
		"Using decoder %s for %s":                                  "%[2]s のデコーダーに %[1]s を使用します",
		"Pixel format %s is accepted as-is":                        "ピクセルフォーマット %s をそのまま使用します",
		"Resampling %s to %s":                                      "%s を %s に変換します",
		"Decoded %d frames":                                        "%d フレームをデコードしました",
		"Could not send frame %d (channel full: %t): %v":           "フレーム %d を送信できませんでした (チャネル満杯: %t): %v",
		"Encoder stopped receiving after %d frames":                "エンコーダーが %d フレームで受信を停止しました",
		"Frame count from container failed: %v":                    "フレーム数の取得に失敗しました: %v",
		"Frame count from container samples: %d":                   "コンテナから取得したフレーム数: %d",
		"Frame count estimated from duration: %d":                  "再生時間から推定したフレーム数: %d",

		// Encoder tasks
		"AVIF encoder: codec %s, %d threads, quantizer %d/%d, speed %d, timescale %d": "AVIFエンコーダー: コーデック %s, %d スレッド, 量子化 %d/%d, 速度 %d, タイムスケール %d",
		"AVIF sequence of %d frames assembled":                                        "%d フレームのAVIFシーケンスを組み立てました",
		"WebP canvas %dx%d, duration %d ms":                                           "WebPキャンバス %dx%d, 再生時間 %d ms",
		"WebP animation of %d frames assembled, ends at %d ms":                        "%d フレームのWebPアニメーションを組み立てました (終了 %d ms)",
	})
}
